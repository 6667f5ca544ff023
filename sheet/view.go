// ABOUTME: Derived view over the row store: filtering, sorting, and option lists
// ABOUTME: Pure recomputation from rows plus filter state, no caching
package sheet

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/norm"

	"github.com/koochoy97/sheet-app/models"
)

// ScoreNone is the score-filter sentinel selecting rows without a score.
// It is distinct from "0".
const ScoreNone = "none"

// DateRange is an inclusive celebration-date window. Either bound may be
// empty. A row with no date fails any non-empty range.
type DateRange struct {
	Label string
	Start string
	End   string
}

// Empty reports whether the range constrains nothing.
func (d DateRange) Empty() bool {
	return d.Start == "" && d.End == ""
}

// Filters is the conjunction of independent row predicates.
type Filters struct {
	Status       string
	Score        string // "" | ScoreNone | "0".."10"
	CompanyQuery string
	Dates        DateRange
}

// SortDir is one sort direction; the zero value means unsorted.
type SortDir int

const (
	SortOff SortDir = iota
	SortAsc
	SortDesc
)

// Sort is the single-key sort state.
type Sort struct {
	Key models.Field
	Dir SortDir
}

// Toggle advances the three-state cycle for a key: none, asc, desc,
// none. Toggling a different key starts at asc.
func (s Sort) Toggle(key models.Field) Sort {
	if s.Key != key || s.Dir == SortOff {
		return Sort{Key: key, Dir: SortAsc}
	}
	if s.Dir == SortAsc {
		return Sort{Key: key, Dir: SortDesc}
	}
	return Sort{}
}

var diacriticStripper = runes.Remove(runes.In(unicode.Mn))

// foldText lowercases and strips diacritics so "Äcme" matches "acme".
func foldText(s string) string {
	decomposed := norm.NFD.String(strings.ToLower(s))
	stripped := diacriticStripper.String(decomposed)
	return norm.NFC.String(stripped)
}

// isSubsequence reports whether needle's characters appear in hay in
// order, not necessarily contiguously.
func isSubsequence(needle, hay string) bool {
	n := []rune(needle)
	i := 0
	for _, r := range hay {
		if i < len(n) && r == n[i] {
			i++
		}
	}
	return i == len(n)
}

// FuzzyMatch reports whether every whitespace token of the query appears
// in the candidate, either as a contiguous substring or as a character
// subsequence. Both sides are case- and diacritic-folded.
func FuzzyMatch(query, candidate string) bool {
	q := foldText(query)
	h := foldText(candidate)
	tokens := strings.Fields(q)
	if len(tokens) == 0 {
		return true
	}
	for _, tok := range tokens {
		if !strings.Contains(h, tok) && !isSubsequence(tok, h) {
			return false
		}
	}
	return true
}

// FilterRows returns the rows passing every active predicate, in input
// order.
func FilterRows(rows []models.Row, f Filters) []models.Row {
	out := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		if f.Status != "" && row.Status != f.Status {
			continue
		}
		if f.Score != "" && !scoreMatches(row, f.Score) {
			continue
		}
		if !f.Dates.Empty() && !dateInRange(row.Fecha, f.Dates) {
			continue
		}
		if strings.TrimSpace(f.CompanyQuery) != "" && !FuzzyMatch(f.CompanyQuery, row.Company) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func scoreMatches(row models.Row, selected string) bool {
	value, has := row.ScoreValue()
	if selected == ScoreNone {
		return !has
	}
	want, err := strconv.ParseFloat(selected, 64)
	if err != nil {
		return true
	}
	return has && value == want
}

func dateInRange(fecha string, r DateRange) bool {
	if fecha == "" {
		return false
	}
	if r.Start != "" && fecha < r.Start {
		return false
	}
	if r.End != "" && fecha > r.End {
		return false
	}
	return true
}

// collator gives locale-aware ordering for string columns; labels are
// Spanish.
var collator = collate.New(language.Spanish, collate.IgnoreCase)

// SortRows returns a sorted copy of rows for the given sort state, or
// the rows unchanged when the sort is off. Numeric keys place rows
// without a value before any present value in ascending order; the sort
// is stable.
func SortRows(rows []models.Row, s Sort) []models.Row {
	if s.Dir == SortOff || s.Key == "" {
		return rows
	}
	out := append([]models.Row(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if s.Dir == SortDesc {
			return lessByKey(&out[j], &out[i], s.Key)
		}
		return lessByKey(&out[i], &out[j], s.Key)
	})
	return out
}

func lessByKey(a, b *models.Row, key models.Field) bool {
	if key == models.FieldScore {
		av, aok := a.ScoreValue()
		bv, bok := b.ScoreValue()
		if !aok && !bok {
			return false
		}
		if !aok {
			return true // missing sorts as -inf
		}
		if !bok {
			return false
		}
		return av < bv
	}
	return collator.CompareString(a.FieldValue(key), b.FieldValue(key)) < 0
}

// StatusesPresent derives the status options: the subset of the fixed
// vocabulary appearing among the rows, falling back to the full
// vocabulary so the control is never empty.
func StatusesPresent(rows []models.Row) []string {
	present := make(map[string]bool, len(rows))
	for _, row := range rows {
		present[row.Status] = true
	}
	out := make([]string, 0, len(models.StatusOptions))
	for _, opt := range models.StatusOptions {
		if present[opt] {
			out = append(out, opt)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), models.StatusOptions...)
	}
	return out
}

// ScoresPresent derives the score options: sorted distinct scores, plus
// a "no score" option when any row lacks one.
func ScoresPresent(rows []models.Row) (scores []float64, hasNone bool) {
	seen := make(map[float64]bool)
	for _, row := range rows {
		if v, ok := row.ScoreValue(); ok {
			if !seen[v] {
				seen[v] = true
				scores = append(scores, v)
			}
		} else {
			hasNone = true
		}
	}
	sort.Float64s(scores)
	return scores, hasNone
}

// LineOption is one selectable business line.
type LineOption struct {
	ID    int
	Label string
}

// LineCatalog groups business-line entities per client and answers
// option lookups with an all-clients union fallback so the selector is
// never inoperable.
type LineCatalog struct {
	byClient map[int64][]LineOption
	union    []LineOption
}

// NewLineCatalog builds a catalog from wire tuples, deduplicating by
// line id within each client and sorting by label.
func NewLineCatalog(lines []models.BusinessLine) *LineCatalog {
	c := &LineCatalog{byClient: make(map[int64][]LineOption)}
	seenPerClient := make(map[int64]map[int]bool)
	seenUnion := make(map[int]bool)
	for _, line := range lines {
		if seenPerClient[line.ClientID] == nil {
			seenPerClient[line.ClientID] = make(map[int]bool)
		}
		if !seenPerClient[line.ClientID][line.LineID] {
			seenPerClient[line.ClientID][line.LineID] = true
			c.byClient[line.ClientID] = append(c.byClient[line.ClientID], LineOption{ID: line.LineID, Label: line.Label})
		}
		if !seenUnion[line.LineID] {
			seenUnion[line.LineID] = true
			c.union = append(c.union, LineOption{ID: line.LineID, Label: line.Label})
		}
	}
	for id := range c.byClient {
		sortLineOptions(c.byClient[id])
	}
	sortLineOptions(c.union)
	return c
}

// OptionsFor returns the options for a client, or the union across all
// clients when the client is unknown or has none.
func (c *LineCatalog) OptionsFor(clientID *int64) []LineOption {
	if clientID != nil {
		if opts, ok := c.byClient[*clientID]; ok && len(opts) > 0 {
			return opts
		}
	}
	return c.union
}

// Label resolves a line id to its label, falling back to "ID {n}" for
// ids whose entity is not in the current option list.
func (c *LineCatalog) Label(clientID *int64, lineID int) string {
	for _, opt := range c.OptionsFor(clientID) {
		if opt.ID == lineID {
			return opt.Label
		}
	}
	for _, opt := range c.union {
		if opt.ID == lineID {
			return opt.Label
		}
	}
	return "ID " + strconv.Itoa(lineID)
}

func sortLineOptions(opts []LineOption) {
	sort.SliceStable(opts, func(i, j int) bool {
		return collator.CompareString(opts[i].Label, opts[j].Label) < 0
	})
}

// Relative date presets mirroring the date filter choices.
func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DatePresets returns the relative ranges offered by the date filter,
// computed against now.
func DatePresets(now time.Time) []DateRange {
	today := isoDate(now)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return []DateRange{
		{Label: "Todo el tiempo"},
		{Label: "Hoy", Start: today, End: today},
		{Label: "Últimos 7 días", Start: isoDate(now.AddDate(0, 0, -6)), End: today},
		{Label: "Últimos 30 días", Start: isoDate(now.AddDate(0, 0, -29)), End: today},
		{Label: "Este mes", Start: isoDate(firstOfMonth), End: isoDate(firstOfMonth.AddDate(0, 1, -1))},
		{Label: "Mes pasado", Start: isoDate(firstOfMonth.AddDate(0, -1, 0)), End: isoDate(firstOfMonth.AddDate(0, 0, -1))},
		{Label: "Este año", Start: isoDate(time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())), End: isoDate(time.Date(now.Year(), 12, 31, 0, 0, 0, 0, now.Location()))},
	}
}
