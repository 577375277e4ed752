package extract

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// hasMatchingRecord reports whether src contains a <record> element whose
// model attribute equals recordModel and whose <field name="model"> text is
// in wanted. Records may appear at any nesting depth (<odoo>, <data>, ...).
// A parse error means the file cannot be matched; the error is returned so
// callers can decide whether to log.
func hasMatchingRecord(src []byte, recordModel string, wanted map[string]struct{}) (bool, error) {
	dec := xml.NewDecoder(bytes.NewReader(src))
	recordDepth := -1 // element depth of the current matching <record>, -1 when outside
	depth := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			depth++
			if recordDepth < 0 && el.Name.Local == "record" && attrValue(el, "model") == recordModel {
				recordDepth = depth
				continue
			}
			if recordDepth >= 0 && el.Name.Local == "field" && attrValue(el, "name") == "model" {
				var text string
				if err := dec.DecodeElement(&text, &el); err != nil {
					return false, err
				}
				if _, ok := wanted[strings.TrimSpace(text)]; ok {
					return true, nil
				}
				// DecodeElement consumed the matching EndElement.
				depth--
			}
		case xml.EndElement:
			if depth == recordDepth {
				recordDepth = -1
			}
			depth--
		}
	}
}

// hasMatchingTemplate reports whether src contains a <template> element whose
// id attribute is in wanted ids.
func hasMatchingTemplate(src []byte, ids map[string]struct{}) (bool, error) {
	dec := xml.NewDecoder(bytes.NewReader(src))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		el, ok := tok.(xml.StartElement)
		if !ok || el.Name.Local != "template" {
			continue
		}
		if _, ok := ids[attrValue(el, "id")]; ok {
			return true, nil
		}
	}
}

func attrValue(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
