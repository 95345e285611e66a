package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// initCmd writes a documented starter config file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter .qualityscore.yaml",
	Long: `Write a documented .qualityscore.yaml with the default settings and weights.
An existing file is left alone unless --force is given.`,
	Run: func(cmd *cobra.Command, _ []string) {
		path, _ := cmd.Flags().GetString("file")
		force, _ := cmd.Flags().GetBool("force")
		if err := writeStarterConfig(path, force); err != nil {
			contract.LogFatal("Failed to write config", err)
		}
		fmt.Printf("Wrote %s\n", path)
	},
}

// starterEntry is one documented top-level key of the starter config.
type starterEntry struct {
	key     string
	value   *yaml.Node
	comment string
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func str(value string) *yaml.Node { return scalar("!!str", value) }

func num(value int) *yaml.Node { return scalar("!!int", strconv.Itoa(value)) }

func float(value float64) *yaml.Node {
	return scalar("!!float", strconv.FormatFloat(value, 'f', 2, 64))
}

// starterConfig builds the YAML document written by init.
func starterConfig() ([]byte, error) {
	defaults := schema.DefaultWeights()
	weights := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range schema.AllCriteria {
		weights.Content = append(weights.Content, str(string(c)), float(defaults.Get(c)))
	}

	entries := []starterEntry{
		{"owner", str(contract.DefaultOwner), "Owner that analyses, projects and saved weights belong to"},
		{"backend", str(string(schema.SQLiteBackend)), "Storage backend: sqlite, mysql, postgresql or none"},
		{"db-connect", str(""), "SQLite file path or database DSN; prefer QUALITYSCORE_DB_CONNECT for secrets"},
		{"output", str(string(schema.TextOut)), "Output format: text, json or csv"},
		{"color", str("yes"), "Colored grades in text output"},
		{"log-level", str("warn"), "Advisory log level: debug, info, warn or error"},
		{"issue-limit", num(contract.DefaultIssueLimit), "Issues shown in text output"},
		{"workers", num(contract.DefaultWorkers), "Adapters run concurrently by analyze"},
		{"weights", weights, "Criterion weights; missing entries fall back to the defaults and the result is normalized to 1.0"},
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		key := str(e.key)
		key.HeadComment = e.comment
		doc.Content = append(doc.Content, key, e.value)
	}
	return yaml.Marshal(&yaml.Node{Kind: yaml.DocumentNode, HeadComment: "QualityScore configuration", Content: []*yaml.Node{doc}})
}

// writeStarterConfig refuses to replace an existing file unless force is set.
func writeStarterConfig(path string, force bool) error {
	if path == "" {
		return errors.New("config file path cannot be empty")
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	data, err := starterConfig()
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
