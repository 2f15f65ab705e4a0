package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

// NewRootCommand builds the location-weather command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "location-weather",
		Short: "current weather for wherever this machine is",
		Long: `
location-weather discovers the public IP address of this machine, resolves it
to a city and country, and reports the current weather there.
`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newFetchCommand())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})

	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
