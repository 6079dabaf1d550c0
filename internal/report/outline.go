package report

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoReportTable is returned by ParseOutline when the input holds no table.
var ErrNoReportTable = errors.New("no report table found")

// Outline is the cell text of an HTML report, with markup removed and
// entities decoded.
type Outline struct {
	// Header holds the label/value rows of the first table.
	Header [][2]string

	// Columns holds the results table headers. It is empty for a partial
	// report that stopped before the results table.
	Columns []string

	// Rows holds the results table body. Cells spanning several columns
	// are expanded so that every row lines up with Columns; the text goes
	// into the first spanned cell.
	Rows [][]string
}

// ParseOutline parses an HTML report.
func ParseOutline(r io.Reader) (*Outline, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var tables []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			tables = append(tables, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(tables) == 0 {
		return nil, ErrNoReportTable
	}

	o := &Outline{}
	for _, row := range tableRows(tables[0]) {
		cells := cellTexts(row)
		if len(cells) >= 2 {
			o.Header = append(o.Header, [2]string{cells[0], cells[1]})
		}
	}

	if len(tables) > 1 {
		for _, row := range tableRows(tables[1]) {
			if isHeaderRow(row) {
				o.Columns = cellTexts(row)
				continue
			}
			o.Rows = append(o.Rows, cellTexts(row))
		}
	}

	return o, nil
}

// tableRows returns the tr elements of a table, looking through thead and
// tbody but not into nested tables.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "tr":
				rows = append(rows, c)
			case "thead", "tbody", "tfoot":
				walk(c)
			}
		}
	}
	walk(table)
	return rows
}

func isHeaderRow(tr *html.Node) bool {
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "th" {
			return true
		}
	}
	return false
}

// cellTexts returns the text of every td or th in a row, expanding colspan.
func cellTexts(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		cells = append(cells, nodeText(c))
		for span := colspan(c); span > 1; span-- {
			cells = append(cells, "")
		}
	}
	return cells
}

// nodeText concatenates the text below n, turning <br> into newlines.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			sb.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSuffix(sb.String(), "\n")
}

func colspan(n *html.Node) int {
	span, err := strconv.Atoi(getAttr(n, "colspan"))
	if err != nil || span < 1 {
		return 1
	}
	return span
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
