// =============================================================================
// Client Data Masker - XML Writer Module
// =============================================================================
//
// This module renders masked output rows as an XML document, for consumers
// that cannot read delimited text.
//
// XML STRUCTURE:
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <clients>                          <!-- Root element -->
//     <client n="1">                   <!-- One element per output row -->
//       <ID>1</ID>                     <!-- One child per column, named -->
//       <Name>XXXX XXX</Name>          <!-- after the header -->
//       <Email>XXXX@XXXX.com</Email>
//       <Billing>150.0</Billing>
//       <Location>XXX XXXX</Location>
//     </client>
//   </clients>
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// RootElement wraps the document. Default: "clients"
	RootElement string

	// RecordElement wraps one row. Default: "client"
	RecordElement string

	// IndexAttribute carries the 1-based row number. Empty omits it.
	// Default: "n"
	IndexAttribute string

	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// RootAttributes are additional attributes for the root element, written
	// in the given order.
	RootAttributes []xml.Attr
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		RootElement:           "clients",
		RecordElement:         "client",
		IndexAttribute:        "n",
		Indent:                "  ",
		IncludeXMLDeclaration: true,
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates an XML document from rendered rows.
//
// PARAMETERS:
//   - header: Column names, used as child element names.
//   - rows: Rendered row cells, positional to header.
//   - options: Element names and layout.
//
// RETURNS:
//   - The XML document.
//   - An error if an element name is not a valid XML name or a row is longer
//     than the header.
func Generate(header []string, rows [][]string, options GenerateOptions) ([]byte, error) {
	for _, name := range append([]string{options.RootElement, options.RecordElement}, header...) {
		if !isValidName(name) {
			return nil, fmt.Errorf("invalid XML element name %q", name)
		}
	}

	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	buffer.WriteString("<" + options.RootElement)
	for _, attr := range options.RootAttributes {
		writeAttr(&buffer, attr.Name.Local, attr.Value)
	}

	if len(rows) == 0 {
		buffer.WriteString("/>\n")
		return buffer.Bytes(), nil
	}
	buffer.WriteString(">\n")

	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i+1, len(row), len(header))
		}
		writeRecord(&buffer, header, row, i+1, options)
	}

	buffer.WriteString("</" + options.RootElement + ">\n")
	return buffer.Bytes(), nil
}

// WriteFile generates the document and writes it to path, creating parent
// directories as needed.
func WriteFile(path string, header []string, rows [][]string, options GenerateOptions) error {
	data, err := Generate(header, rows, options)
	if err != nil {
		return err
	}
	return writeBytes(path, data)
}

// WriteXSDFile writes the schema produced by GenerateXSD to path.
func WriteXSDFile(path string, header []string, options GenerateOptions) error {
	data, err := GenerateXSD(header, options)
	if err != nil {
		return err
	}
	return writeBytes(path, data)
}

func writeBytes(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// writeRecord writes one row element. Missing trailing cells become empty
// self-closing elements.
func writeRecord(buffer *bytes.Buffer, header, row []string, index int, options GenerateOptions) {
	buffer.WriteString(options.Indent + "<" + options.RecordElement)
	if options.IndexAttribute != "" {
		writeAttr(buffer, options.IndexAttribute, fmt.Sprint(index))
	}
	buffer.WriteString(">\n")

	childIndent := strings.Repeat(options.Indent, 2)
	for col, name := range header {
		value := ""
		if col < len(row) {
			value = row[col]
		}

		buffer.WriteString(childIndent + "<" + name)
		if value == "" {
			buffer.WriteString("/>\n")
			continue
		}
		buffer.WriteString(">")
		escape(buffer, value)
		buffer.WriteString("</" + name + ">\n")
	}

	buffer.WriteString(options.Indent + "</" + options.RecordElement + ">\n")
}

func writeAttr(buffer *bytes.Buffer, name, value string) {
	buffer.WriteString(" " + name + `="`)
	escape(buffer, value)
	buffer.WriteString(`"`)
}

// escape writes s with XML special characters escaped.
func escape(w io.Writer, s string) {
	// EscapeText only fails if the writer does, and bytes.Buffer never does.
	_ = xml.EscapeText(w, []byte(s))
}

// isValidName checks that s can be used as an unprefixed element name.
func isValidName(s string) bool {
	if s == "" || strings.HasPrefix(strings.ToLower(s), "xml") {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z'):
		case i > 0 && (r == '-' || r == '.' || ('0' <= r && r <= '9')):
		default:
			return false
		}
	}
	return true
}

// =============================================================================
// XSD GENERATION
// =============================================================================

// GenerateXSD creates an XSD describing documents produced by Generate with
// the same header and options. Every column is an optional string.
func GenerateXSD(header []string, options GenerateOptions) ([]byte, error) {
	for _, name := range append([]string{options.RootElement, options.RecordElement}, header...) {
		if !isValidName(name) {
			return nil, fmt.Errorf("invalid XML element name %q", name)
		}
	}

	var buffer bytes.Buffer
	buffer.WriteString(xml.Header)
	buffer.WriteString(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" elementFormDefault="qualified">` + "\n")
	fmt.Fprintf(&buffer, "  <xs:element name=%q>\n", options.RootElement)
	buffer.WriteString("    <xs:complexType>\n      <xs:sequence>\n")
	fmt.Fprintf(&buffer, "        <xs:element name=%q minOccurs=\"0\" maxOccurs=\"unbounded\">\n", options.RecordElement)
	buffer.WriteString("          <xs:complexType>\n            <xs:sequence>\n")
	for _, name := range header {
		fmt.Fprintf(&buffer, "              <xs:element name=%q type=\"xs:string\" minOccurs=\"0\"/>\n", name)
	}
	buffer.WriteString("            </xs:sequence>\n")
	if options.IndexAttribute != "" {
		fmt.Fprintf(&buffer, "            <xs:attribute name=%q type=\"xs:positiveInteger\"/>\n", options.IndexAttribute)
	}
	buffer.WriteString("          </xs:complexType>\n        </xs:element>\n")
	buffer.WriteString("      </xs:sequence>\n    </xs:complexType>\n  </xs:element>\n</xs:schema>\n")

	return buffer.Bytes(), nil
}
