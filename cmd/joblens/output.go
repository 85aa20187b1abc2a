package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/amishk599/joblens/internal/browse"
	"github.com/amishk599/joblens/internal/model"
)

// outputFlags are shared by the commands that print a search result.
type outputFlags struct {
	browse bool
	json   bool
}

func (o outputFlags) validate() error {
	if o.browse && o.json {
		return errors.New("--browse and --json are mutually exclusive")
	}
	return nil
}

// present runs fn and shows its result the way the flags ask for. In browse
// mode a spinner is shown while fn runs.
func present(ctx context.Context, label string, out outputFlags, fn func(ctx context.Context) (model.SearchResult, error)) error {
	if !out.browse {
		result, err := fn(ctx)
		if err != nil {
			return err
		}
		if out.json {
			return writeJSON(os.Stdout, result)
		}
		writeTable(os.Stdout, result)
		return nil
	}

	result, err := browse.RunLoader(ctx, label, fn)
	if errors.Is(err, browse.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(result.Jobs) == 0 {
		fmt.Printf("No jobs found for %q.\n", result.Keywords)
		return nil
	}
	return browse.Run(result)
}

func writeJSON(w io.Writer, result model.SearchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func writeTable(w io.Writer, result model.SearchResult) {
	fmt.Fprintf(w, "%-16s %-40s %-22s %-24s %s\n", "ID", "Title", "Company", "Location", "Posted")
	fmt.Fprintln(w, strings.Repeat("─", 118))
	for _, j := range result.Jobs {
		fmt.Fprintf(w, "%-16s %-40s %-22s %-24s %s\n",
			truncate(j.ID, 16), truncate(j.Title, 40), truncate(j.Company, 22), truncate(j.Location, 24), j.PostedDate)
	}

	cached := ""
	if result.Cached {
		cached = ", cached"
	}
	fmt.Fprintf(w, "\n%s jobs for %q from %s (%s%s)\n",
		humanize.Comma(int64(result.Count)), result.Keywords, strings.Join(result.Sources, ", "),
		humanize.Time(result.Timestamp), cached)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
