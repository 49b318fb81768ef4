// Command capturecatalog lists the capture bundles found under a directory
// tree, resolving each header.json to its artefact path and sorting by
// session id so operators can locate a specific session's recording.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"orbit/client/internal/capturecatalog"
)

func main() {
	root := flag.String("dir", ".", "directory containing capture headers")
	jsonFlag := flag.Bool("json", false, "emit JSON instead of human-readable output")
	flag.Parse()

	entries, err := capturecatalog.List(*root)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *jsonFlag {
		payload, err := capturecatalog.MarshalEntries(entries)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(string(payload))
		return
	}

	for _, entry := range entries {
		fmt.Printf("%s (schema %d)\n", entry.ArtefactPath, entry.Header.SchemaVersion)
		if entry.Header.SessionID != "" {
			fmt.Printf("  session: %s\n", entry.Header.SessionID)
		}
		if len(entry.Header.ServerMeta) > 0 {
			keys := make([]string, 0, len(entry.Header.ServerMeta))
			for key := range entry.Header.ServerMeta {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			fmt.Printf("  server meta:\n")
			for _, key := range keys {
				fmt.Printf("    %s: %.3f\n", key, entry.Header.ServerMeta[key])
			}
		}
		fmt.Printf("  header: %s\n", entry.HeaderPath)
	}
}
