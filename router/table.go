// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// describer 由 hook.Chain 實作，用來在路由表中列出 chain 結構。
type describer interface {
	Names() []string
}

// Table 以對齊的表格輸出所有已註冊路由（依註冊順序）。
func (rt *Router) Table(w io.Writer) error {
	_, err := io.WriteString(w, FormatTable(rt.routes))
	return err
}

// FormatTable 把路由排成表格字串。欄寬以 runewidth 計算，path 含全形字元時仍能對齊。
func FormatTable(routes []Route) string {
	p := message.NewPrinter(lang)
	header := [3]string{"METHODS", "PATH", "CHAIN"}
	rows := make([][3]string, 0, len(routes))
	methodCount := 0
	for _, r := range routes {
		chain := "-"
		if d, ok := r.Handler.(describer); ok {
			if names := d.Names(); len(names) > 0 {
				chain = strings.Join(names, " > ")
			}
		}
		methodCount += len(r.Methods)
		rows = append(rows, [3]string{strings.Join(r.Methods, ","), r.Path, chain})
	}

	var widths [3]int
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	divider := "+"
	for _, w := range widths {
		divider += strings.Repeat("-", w+2) + "+"
	}
	divider += "\n"

	var sb strings.Builder
	sb.WriteString(divider)
	sb.WriteString(fmtRow(header, widths))
	sb.WriteString(divider)
	for _, row := range rows {
		sb.WriteString(fmtRow(row, widths))
	}
	sb.WriteString(divider)
	sb.WriteString(p.Sprintf("%d routes, %d method handlers\n", len(routes), methodCount))
	return sb.String()
}

func fmtRow(cells [3]string, widths [3]int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for i, c := range cells {
		sb.WriteString(" ")
		sb.WriteString(c)
		sb.WriteString(blank(widths[i] - runewidth.StringWidth(c)))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
