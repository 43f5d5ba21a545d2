package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jrazmi/anchorboard/core/filetree"
	"github.com/spf13/cobra"
)

func treeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Render a saved GitHub tree listing",
		Long: `Render a recursive git tree listing saved from the GitHub API.

The file holds either the full response of GET /repos/{owner}/{repo}/git/trees
or a bare array of {path, type, sha, url} entries. Use - to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			entries, err := decodeEntries(data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}

			roots, report := filetree.Build(entries)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(roots); err != nil {
					return fmt.Errorf("encode tree: %w", err)
				}
			} else {
				renderNodes(out, roots, "")
			}

			printReport(cmd.ErrOrStderr(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the built tree as JSON")
	return cmd
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// decodeEntries accepts a GitHub tree response or a bare entry array.
func decodeEntries(data []byte) ([]filetree.Entry, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var entries []filetree.Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}

	var resp struct {
		Tree []filetree.Entry `json:"tree"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return resp.Tree, nil
}

func renderNodes(w io.Writer, nodes []*filetree.Node, indent string) {
	for _, n := range nodes {
		if n.Type == filetree.TypeTree {
			label := dirColor.Sprint(n.Name + "/")
			if n.Placeholder {
				label += " " + warnColor.Sprint("(synthesized)")
			}
			fmt.Fprintf(w, "%s%s\n", indent, label)
			renderNodes(w, n.Children, indent+"  ")
			continue
		}
		fmt.Fprintf(w, "%s%s\n", indent, n.Name)
	}
}

func printReport(w io.Writer, r filetree.Report) {
	if r.Clean() {
		return
	}
	if len(r.Synthesized) > 0 {
		fmt.Fprintf(w, "%s synthesized directories: %s\n", warnColor.Sprint("warning:"), strings.Join(r.Synthesized, ", "))
	}
	if len(r.Duplicates) > 0 {
		fmt.Fprintf(w, "%s duplicate paths: %s\n", warnColor.Sprint("warning:"), strings.Join(r.Duplicates, ", "))
	}
	if len(r.Dropped) > 0 {
		fmt.Fprintf(w, "%s dropped entries: %s\n", warnColor.Sprint("warning:"), strings.Join(r.Dropped, ", "))
	}
}
