package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"nissanscraper/internal/model"
)

type field int

const (
	fieldNone field = iota
	fieldModel
	fieldYear
	fieldRegion
	fieldSteering
	fieldTransmissionType
	fieldSeries
	fieldEngine
	fieldClass
	fieldBody
	fieldAdditionalBody
	fieldAdditionalEngine
	fieldAdditionalArea
	fieldAdditionalGrade
	fieldAdditionalTransmission
)

// fieldAliases maps normalized catalog labels to vehicle fields.
var fieldAliases = map[string]field{
	"model":                   fieldModel,
	"model designation":       fieldModel,
	"model name":              fieldModel,
	"model_designation":       fieldModel,
	"year":                    fieldYear,
	"model year":              fieldYear,
	"production year":         fieldYear,
	"region":                  fieldRegion,
	"market":                  fieldRegion,
	"steering":                fieldSteering,
	"steering side":           fieldSteering,
	"handle":                  fieldSteering,
	"transmission":            fieldTransmissionType,
	"transmission type":       fieldTransmissionType,
	"transmission_type":       fieldTransmissionType,
	"series":                  fieldSeries,
	"model series":            fieldSeries,
	"chassis":                 fieldSeries,
	"engine":                  fieldEngine,
	"engine type":             fieldEngine,
	"class":                   fieldClass,
	"grade":                   fieldClass,
	"class/grade":             fieldClass,
	"body":                    fieldBody,
	"body type":               fieldBody,
	"additional body":         fieldAdditionalBody,
	"additional_body":         fieldAdditionalBody,
	"body code":               fieldAdditionalBody,
	"additional engine":       fieldAdditionalEngine,
	"additional_engine":       fieldAdditionalEngine,
	"engine code":             fieldAdditionalEngine,
	"additional area":         fieldAdditionalArea,
	"additional_area":         fieldAdditionalArea,
	"area":                    fieldAdditionalArea,
	"area code":               fieldAdditionalArea,
	"additional grade":        fieldAdditionalGrade,
	"additional_grade":        fieldAdditionalGrade,
	"grade code":              fieldAdditionalGrade,
	"additional transmission": fieldAdditionalTransmission,
	"additional_transmission": fieldAdditionalTransmission,
	"transmission code":       fieldAdditionalTransmission,
}

func lookupField(label string) field {
	return fieldAliases[normalizeLabel(label)]
}

func setField(v *model.Vehicle, f field, val string) {
	switch f {
	case fieldModel:
		v.ModelDesignation = val
	case fieldYear:
		v.Year = val
	case fieldRegion:
		v.Region = val
	case fieldSteering:
		v.Steering = val
	case fieldTransmissionType:
		v.TransmissionType = val
	case fieldSeries:
		v.Series = val
	case fieldEngine:
		v.Engine = val
	case fieldClass:
		v.Class = val
	case fieldBody:
		v.Body = val
	case fieldAdditionalBody:
		v.AdditionalBody = val
	case fieldAdditionalEngine:
		v.AdditionalEngine = val
	case fieldAdditionalArea:
		v.AdditionalArea = val
	case fieldAdditionalGrade:
		v.AdditionalGrade = val
	case fieldAdditionalTransmission:
		v.AdditionalTransmission = val
	}
}

// ParseVehicles extracts catalog rows from a listing page.
//
// Attributes listed once in a <dl> apply to every row. Each <table> whose
// header names at least two known columns is read row by row; a non-empty
// cell overrides the page-level value. A page without a catalog table but
// with a model designation in its <dl> yields a single vehicle.
func ParseVehicles(page *Page) ([]model.Vehicle, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	base, err := url.Parse(page.URL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	defaults := make(map[field]string)
	eachDefinition(doc.Selection, func(label, value string) {
		if f := lookupField(label); f != fieldNone {
			defaults[f] = value
		}
	})
	heading := cleanText(doc.Find("h1").First().Text())

	newVehicle := func() model.Vehicle {
		v := model.Vehicle{SourceURL: page.URL, ScrapedAt: page.FetchedAt}
		for f, val := range defaults {
			setField(&v, f, val)
		}
		return v
	}

	var (
		out    []model.Vehicle
		seen   = make(map[string]bool)
		tables int
	)
	add := func(v model.Vehicle) {
		if v.ModelDesignation == "" {
			v.ModelDesignation = heading
		}
		if v.ModelDesignation == "" {
			return
		}
		v.ID = VehicleID(v)
		if seen[v.ID] {
			return
		}
		seen[v.ID] = true
		out = append(out, v)
	}

	pageURL := resolveURL(base, "")

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		cols, header := catalogColumns(table)
		if cols == nil {
			return
		}
		tables++

		// only body rows are vehicles; thead and tfoot hold labels and totals
		table.ChildrenFiltered("tbody").ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
			if tr.IsSelection(header) {
				return
			}
			cells := tr.ChildrenFiltered("td, th")
			if tr.ChildrenFiltered("td").Length() == 0 {
				return
			}
			v := newVehicle()
			filled := false
			cells.Each(func(i int, cell *goquery.Selection) {
				if i >= len(cols) || cols[i] == fieldNone {
					return
				}
				if text := cleanText(cell.Text()); text != "" {
					setField(&v, cols[i], text)
					filled = true
				}
			})
			if !filled {
				return
			}
			if href, ok := tr.Find("a[href]").First().Attr("href"); ok {
				if detail := resolveURL(base, href); detail != pageURL {
					v.DetailURL = detail
				}
			}
			add(v)
		})
	})

	if tables == 0 && defaults[fieldModel] != "" {
		add(newVehicle())
	}
	return out, nil
}

// ParseSpecs reads label/value pairs from a vehicle detail page: <dl> entries
// and two-cell table rows. Later duplicates of a label win.
func ParseSpecs(body []byte) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	specs := make(map[string]string)
	put := func(label, value string) {
		label = strings.TrimRight(cleanText(label), ":")
		label = strings.TrimSpace(label)
		if label != "" && value != "" {
			specs[label] = value
		}
	}

	eachDefinition(doc.Selection, put)
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("th, td")
		if cells.Length() != 2 || tr.ChildrenFiltered("td").Length() == 0 {
			return
		}
		put(cells.Eq(0).Text(), cleanText(cells.Eq(1).Text()))
	})
	return specs, nil
}

// eachDefinition walks <dl> lists; several <dd> for one <dt> are joined.
func eachDefinition(sel *goquery.Selection, fn func(label, value string)) {
	sel.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		var (
			label  string
			values []string
		)
		flush := func() {
			if label != "" && len(values) > 0 {
				fn(label, strings.Join(values, ", "))
			}
			label, values = "", nil
		}
		dl.Children().Each(func(_ int, child *goquery.Selection) {
			switch goquery.NodeName(child) {
			case "dt":
				flush()
				label = cleanText(child.Text())
			case "dd":
				if text := cleanText(child.Text()); text != "" {
					values = append(values, text)
				}
			}
		})
		flush()
	})
}

// catalogColumns maps header cells to fields and returns the header row, or
// nil columns when the table does not look like a vehicle catalog.
func catalogColumns(table *goquery.Selection) ([]field, *goquery.Selection) {
	header := table.ChildrenFiltered("thead").ChildrenFiltered("tr").First()
	if header.Length() == 0 {
		tableRows(table).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
			if tr.ChildrenFiltered("th").Length() > 0 && tr.ChildrenFiltered("td").Length() == 0 {
				header = tr
				return false
			}
			return true
		})
	}
	if header.Length() == 0 {
		return nil, nil
	}

	var (
		cols  []field
		known int
	)
	header.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
		f := lookupField(cell.Text())
		if f != fieldNone {
			known++
		}
		cols = append(cols, f)
	})
	if known < 2 {
		return nil, nil
	}
	return cols, header
}

func tableRows(table *goquery.Selection) *goquery.Selection {
	return table.ChildrenFiltered("thead, tbody, tfoot").ChildrenFiltered("tr")
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	u := base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Fragment = ""
	return u.String()
}

var innerWhitespace = regexp.MustCompile(`\s+`)

// cleanText drops non-printable runes and collapses whitespace.
func cleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}

func normalizeLabel(s string) string {
	s = strings.ToLower(cleanText(s))
	s = strings.TrimRight(s, ":.")
	return strings.TrimSpace(s)
}
