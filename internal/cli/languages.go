package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/amrgaberm/codesense/internal/domain/language"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported programming languages",
	Run: func(cmd *cobra.Command, args []string) {
		byLang := make(map[string][]string)
		for ext, lang := range language.Extensions() {
			byLang[lang] = append(byLang[lang], ext)
		}

		names := make([]string, 0, len(byLang))
		for lang := range byLang {
			names = append(names, lang)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "LANGUAGE\tEXTENSIONS")
		for _, lang := range names {
			exts := byLang[lang]
			sort.Strings(exts)
			fmt.Fprintf(w, "%s\t%s\n", lang, strings.Join(exts, ", "))
		}
		w.Flush()
	},
}
