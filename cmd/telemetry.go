package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/cosmic/internal/telemetry"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "View the JSONL telemetry events of past runs",
	Long: `Reads and formats the JSONL telemetry file configured as telemetry.path, or
the file given with --file. With --session, only events of that run are shown.
With --follow (-f), watches the file for new events (like tail -f).`,
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().String("file", "", "telemetry file (default from config telemetry.path)")
	telemetryCmd.Flags().String("session", "", "only show events from this session id")
	telemetryCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	session, _ := cmd.Flags().GetString("session")
	follow, _ := cmd.Flags().GetBool("follow")

	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Telemetry.Path
	}
	if path == "" {
		return fmt.Errorf("telemetry: no file; set telemetry.path or pass --file")
	}
	emitLine := func(w io.Writer, line string) { printEvent(w, line, session) }

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	// Print all existing events.
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		emitLine(cmd.OutOrStdout(), line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("telemetry: read %s: %w", path, err)
	}

	if !follow {
		return nil
	}

	return tailFollow(cmd.OutOrStdout(), f, path, emitLine)
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(w io.Writer, f *os.File, path string, emitLine func(io.Writer, string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	reader := bufio.NewReader(f)
	for event := range watcher.Events {
		if event.Op&fsnotify.Write == 0 {
			continue
		}
		// Read all new lines available.
		for {
			line, err := reader.ReadString('\n')
			line = strings.TrimSpace(line)
			if line != "" {
				emitLine(w, line)
			}
			if err != nil {
				break
			}
		}
	}
	return nil
}

// printEvent decodes a JSONL line and prints a human-readable representation.
// Events from sessions other than session are skipped when session is set.
func printEvent(w io.Writer, line, session string) {
	var evt telemetry.Event
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		fmt.Fprintf(w, "??? %s\n", line)
		return
	}
	if session != "" && evt.SessionID != session {
		return
	}

	ts := evt.Timestamp.Format(time.TimeOnly)
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", ts))
	parts = append(parts, evt.Kind)

	if evt.SessionID != "" {
		parts = append(parts, fmt.Sprintf("session=%.8s", evt.SessionID))
	}
	if evt.RecordID != "" {
		parts = append(parts, fmt.Sprintf("record=%s", evt.RecordID))
	}
	if evt.Data != nil {
		if m, ok := evt.Data.(map[string]any); ok {
			parts = append(parts, formatDataMap(m))
		} else {
			data, _ := json.Marshal(evt.Data)
			parts = append(parts, string(data))
		}
	}

	fmt.Fprintln(w, strings.Join(parts, " "))
}

// formatDataMap formats a data map as key=value pairs sorted by key.
func formatDataMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, m[k])
	}
	return b.String()
}
