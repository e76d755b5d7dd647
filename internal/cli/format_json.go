package cli

import (
	"encoding/json"
	"fmt"

	"github.com/leeovery/finddups/internal/dedup"
)

// JSONFormatter implements the Formatter interface with snake_case keys and
// 2-space indentation. Lists are always arrays, never null.
type JSONFormatter struct{}

type jsonStats struct {
	Records         int `json:"records"`
	Groups          int `json:"groups"`
	Singletons      int `json:"singletons"`
	DuplicateGroups int `json:"duplicate_groups"`
	Kept            int `json:"kept"`
	Discarded       int `json:"discarded"`
	Ambiguous       int `json:"ambiguous"`
	LargestGroup    int `json:"largest_group"`
}

type jsonGroup struct {
	Key       string    `json:"key"`
	Size      int       `json:"size"`
	Confirmed int       `json:"confirmed"`
	Choice    *int      `json:"choice"`
	Kept      int       `json:"kept"`
	Ambiguous bool      `json:"ambiguous"`
	QSOs      []jsonQSO `json:"qsos"`
}

type jsonQSO struct {
	Record  int    `json:"record"`
	Call    string `json:"call"`
	QSODate string `json:"qso_date"`
	TimeOn  string `json:"time_on"`
	Band    string `json:"band"`
	RXBand  string `json:"rx_band"`
	Mode    string `json:"mode"`
	Freq    string `json:"freq"`
	QSLRcvd string `json:"qsl_rcvd"`
	Keep    bool   `json:"keep"`
}

type jsonSummary struct {
	Source          string `json:"source"`
	Output          string `json:"output"`
	Mode            string `json:"mode"`
	Records         int    `json:"records"`
	Written         int    `json:"written"`
	Discarded       int    `json:"discarded"`
	DuplicateGroups int    `json:"duplicate_groups"`
	Ambiguous       int    `json:"ambiguous"`
}

// FormatStats renders statistics as a JSON object.
func (f *JSONFormatter) FormatStats(s dedup.Stats) string {
	return f.marshal(jsonStats(s))
}

// FormatGroups renders groups as a JSON array. A group without a choice has
// "choice": null.
func (f *JSONFormatter) FormatGroups(groups []GroupData) string {
	out := make([]jsonGroup, 0, len(groups))
	for _, g := range groups {
		jg := jsonGroup{
			Key:       g.Key,
			Size:      g.Size,
			Confirmed: g.Confirmed,
			Kept:      g.Kept,
			Ambiguous: g.Ambiguous,
			QSOs:      make([]jsonQSO, 0, len(g.QSOs)),
		}
		if g.Choice != dedup.NoChoice {
			choice := g.Choice
			jg.Choice = &choice
		}
		for _, q := range g.QSOs {
			jg.QSOs = append(jg.QSOs, jsonQSO(q))
		}
		out = append(out, jg)
	}
	return f.marshal(out)
}

// FormatSummary renders the dedup result as a JSON object.
func (f *JSONFormatter) FormatSummary(d SummaryData) string {
	return f.marshal(jsonSummary(d))
}

// FormatMessage renders a message as {"message": "..."}.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return f.marshal(map[string]string{"message": msg})
}

func (f *JSONFormatter) marshal(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("{\"error\": %q}\n", err.Error())
	}
	return string(data) + "\n"
}
