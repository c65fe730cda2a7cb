package canonical

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// aliasesTOML is the maintained import-name -> distribution-name table.
// Entries live in data/aliases.toml so the table can evolve without code
// changes; see that file for the format.
//
//go:embed data/aliases.toml
var aliasesTOML []byte

// stdlibList is the Python standard-library and builtin module set, one
// module name per line. Derived from sys.stdlib_module_names.
//
//go:embed data/stdlib.txt
var stdlibList string

var (
	loadOnce       sync.Once
	builtinAliases map[string]string
	builtinStdlib  []string
)

// LoadAliases parses a TOML alias table of the same shape as the embedded
// one: a single [aliases] table mapping import names to distribution names.
func LoadAliases(data []byte) (map[string]string, error) {
	var doc struct {
		Aliases map[string]string `toml:"aliases"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Aliases, nil
}

func loadEmbedded() {
	loadOnce.Do(func() {
		// The embedded table is validated by tests; a parse failure here
		// would mean a broken build, so an empty table is an acceptable
		// degradation at runtime.
		builtinAliases, _ = LoadAliases(aliasesTOML)

		for _, line := range strings.Split(stdlibList, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			builtinStdlib = append(builtinStdlib, line)
		}
	})
}

// defaultAliases returns the embedded import -> distribution alias table.
func defaultAliases() map[string]string {
	loadEmbedded()
	return builtinAliases
}

// defaultStdlib returns the embedded Python stdlib/builtin module names.
func defaultStdlib() []string {
	loadEmbedded()
	return builtinStdlib
}
