package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/plainedit/internal/logging"
	"github.com/yaklabco/plainedit/pkg/keyboard"
)

type keysFlags struct {
	format string
}

const formatJSON = "json"

// keyInfo represents a key name in JSON output.
type keyInfo struct {
	Name  string `json:"name"`
	Key   string `json:"key"`
	Code  string `json:"code"`
	Class string `json:"class"`
}

func newKeysCommand() *cobra.Command {
	flags := &keysFlags{}

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List key names usable in key scripts",
		Long: `List the names accepted inside {} escapes of a key script, with the
key they press and how the editor classifies it. Names are case-insensitive
and may carry Ctrl+, Alt+ or Shift+ prefixes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := keyInfos()
			if err != nil {
				return err
			}

			if flags.format == formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(infos); err != nil {
					return fmt.Errorf("encoding keys: %w", err)
				}
				return nil
			}

			logger := logging.NewInteractive()
			logger.Info("available key names")
			for _, info := range infos {
				logger.Info("{"+info.Name+"}",
					logging.FieldKey, info.Key,
					"class", info.Class,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func keyInfos() ([]keyInfo, error) {
	names := keyboard.KeyNames()
	infos := make([]keyInfo, 0, len(names))
	for _, name := range names {
		ks, err := keyboard.Named(name)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", name, err)
		}
		infos = append(infos, keyInfo{
			Name:  name,
			Key:   ks.Key,
			Code:  ks.Code,
			Class: ks.Class().String(),
		})
	}
	return infos, nil
}
