package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/DocFacts/internal/bootstrap"
	"github.com/turtacn/DocFacts/internal/export"
	factextractor "github.com/turtacn/DocFacts/internal/intelligence/fact_extractor"
	"github.com/turtacn/DocFacts/pkg/errors"
)

var (
	extractFrontmatter  bool
	extractFactsJSON    bool
	extractIncludeSpans bool
	extractSource       string
)

// NewExtractCmd creates the extract command: run the extraction engine
// locally over a file or stdin.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract typed facts from a text file or stdin",
		Long:  "Run the fact extraction engine over the given file (or stdin when no\nfile is given) and print the entities found.  Use --frontmatter or\n--facts-json to emit the document export formats instead of the entity\nlisting.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExtract,
	}

	cmd.Flags().BoolVar(&extractFrontmatter, "frontmatter", false, "emit YAML frontmatter instead of the entity listing")
	cmd.Flags().BoolVar(&extractFactsJSON, "facts-json", false, "emit the semantic-facts JSON document instead of the entity listing")
	cmd.Flags().BoolVar(&extractIncludeSpans, "include-spans", false, "include codepoint spans in frontmatter output")
	cmd.Flags().StringVar(&extractSource, "source", "", "source name recorded in export output (default: file name or \"stdin\")")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	text, source, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	if extractSource != "" {
		source = extractSource
	}

	extractor, err := bootstrap.NewExtractor(cliCtx.Config.Extractor, nil, cliCtx.Logger)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "extraction engine initialization failed")
	}

	result := extractor.ExtractWithStats(text)

	if extractFrontmatter {
		return export.WriteFrontmatter(cmd.OutOrStdout(), result.Entities, export.FrontmatterOptions{
			Source:       source,
			ExtractedAt:  time.Now().UTC(),
			IncludeSpans: extractIncludeSpans,
		})
	}
	if extractFactsJSON {
		doc := export.NewFactsDocument(source, result.Entities)
		return export.WriteFactsJSON(cmd.OutOrStdout(), doc)
	}

	return PrintResult(cmd, entityListing(result.Entities))
}

// readInput returns the text to extract from and a source name for exports.
func readInput(cmd *cobra.Command, args []string) (text, source string, err error) {
	if len(args) == 1 {
		data, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return "", "", errors.Wrap(readErr, errors.ErrCodeBadRequest, fmt.Sprintf("cannot read %s", args[0]))
		}
		return string(data), args[0], nil
	}

	data, readErr := io.ReadAll(cmd.InOrStdin())
	if readErr != nil {
		return "", "", errors.Wrap(readErr, errors.ErrCodeBadRequest, "cannot read stdin")
	}
	return string(data), "stdin", nil
}

// entityListing adapts extraction output for table rendering.
type entityListing []factextractor.Entity

func (entityListing) TableHeaders() []string {
	return []string{"CATEGORY", "KIND", "SPAN", "TEXT", "VALUE", "UNIT"}
}

func (l entityListing) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		rows = append(rows, []string{
			string(e.Category),
			string(e.Kind),
			fmt.Sprintf("%d-%d", e.Span.Start, e.Span.End),
			e.RawText,
			entityValue(e),
			e.Unit,
		})
	}
	return rows
}

// entityValue renders the numeric or calendar payload of an entity.
func entityValue(e factextractor.Entity) string {
	switch {
	case e.Date != "":
		return e.Date
	case e.StartDate != "" || e.EndDate != "":
		return e.StartDate + ".." + e.EndDate
	case e.Kind == factextractor.KindRange:
		return formatFloat(e.StartValue) + ".." + formatFloat(e.EndValue)
	default:
		return formatFloat(e.Value)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
