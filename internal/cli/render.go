package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/i474232898/location-weather/internal/lookup"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// resolveFormat picks the output format. An empty flag means text on a
// terminal and json when piped.
func resolveFormat(flag string, terminal bool) (string, error) {
	switch strings.ToLower(flag) {
	case "":
		if terminal {
			return formatText, nil
		}
		return formatJSON, nil
	case formatText:
		return formatText, nil
	case formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", flag)
	}
}

func render(w io.Writer, snap lookup.Snapshot, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	default:
		return renderText(w, snap)
	}
}

func renderText(w io.Writer, snap lookup.Snapshot) error {
	var b strings.Builder

	fmt.Fprintf(&b, "STATUS\t\t%s\n", snap.Status)
	if snap.Location != nil {
		fmt.Fprintf(&b, "LOCATION\t%s, %s\n", snap.Location.City, snap.Location.CountryName)
	}
	if snap.Weather != nil {
		fmt.Fprintf(&b, "TEMP\t\t%.0f°C\n", snap.Weather.TemperatureCelsius)
		fmt.Fprintf(&b, "WEATHER\t\t%s (%s)\n", snap.Weather.Description, snap.Weather.Condition)
		if snap.Weather.Sunrise != "" {
			fmt.Fprintf(&b, "SUNRISE\t\t%s\n", snap.Weather.Sunrise)
		}
		if snap.Weather.Sunset != "" {
			fmt.Fprintf(&b, "SUNSET\t\t%s\n", snap.Weather.Sunset)
		}
	}
	if snap.Error != "" {
		fmt.Fprintf(&b, "ERROR\t\t%s\n", snap.Error)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
