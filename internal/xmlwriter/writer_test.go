package xmlwriter

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var header = []string{"ID", "Name", "Email", "Billing", "Location"}

type parsedDoc struct {
	XMLName xml.Name `xml:"clients"`
	Clients []struct {
		N        int    `xml:"n,attr"`
		ID       string `xml:"ID"`
		Name     string `xml:"Name"`
		Email    string `xml:"Email"`
		Billing  string `xml:"Billing"`
		Location string `xml:"Location"`
	} `xml:"client"`
}

func TestGenerate(t *testing.T) {
	rows := [][]string{
		{"1", "XXXX XXX", "XXXX@XXXX.com", "150.0", "XXX XXXX"},
		{"2", "XXXX", "X.X@XXXX.co.uk", "150.0", "XXXXX"},
	}

	out, err := Generate(header, rows, DefaultGenerateOptions())
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, xml.Header))
	assert.Contains(t, text, "  <client n=\"1\">\n    <ID>1</ID>\n")

	var doc parsedDoc
	require.NoError(t, xml.Unmarshal(out, &doc))
	require.Len(t, doc.Clients, 2)
	assert.Equal(t, 2, doc.Clients[1].N)
	assert.Equal(t, "X.X@XXXX.co.uk", doc.Clients[1].Email)
	assert.Equal(t, "150.0", doc.Clients[0].Billing)
}

func TestGenerate_Escaping(t *testing.T) {
	out, err := Generate([]string{"Name"}, [][]string{{`A & <B> "C"`}}, DefaultGenerateOptions())
	require.NoError(t, err)

	assert.NotContains(t, string(out), "<B>")

	var doc struct {
		Client struct {
			Name string `xml:"Name"`
		} `xml:"client"`
	}
	require.NoError(t, xml.Unmarshal(out, &doc))
	assert.Equal(t, `A & <B> "C"`, doc.Client.Name)
}

func TestGenerate_Options(t *testing.T) {
	options := GenerateOptions{
		RootElement:    "people",
		RecordElement:  "person",
		Indent:         "\t",
		RootAttributes: []xml.Attr{{Name: xml.Name{Local: "source"}, Value: "masker"}},
	}

	out, err := Generate([]string{"ID", "Name"}, [][]string{{"1"}}, options)
	require.NoError(t, err)

	assert.Equal(t,
		"<people source=\"masker\">\n\t<person>\n\t\t<ID>1</ID>\n\t\t<Name/>\n\t</person>\n</people>\n",
		string(out))
}

func TestGenerate_NoRows(t *testing.T) {
	options := DefaultGenerateOptions()
	options.IncludeXMLDeclaration = false

	out, err := Generate(header, nil, options)
	require.NoError(t, err)
	assert.Equal(t, "<clients/>\n", string(out))
}

func TestGenerate_Errors(t *testing.T) {
	_, err := Generate([]string{"First Name"}, nil, DefaultGenerateOptions())
	assert.ErrorContains(t, err, "invalid XML element name")

	_, err = Generate([]string{"ID"}, [][]string{{"1", "extra"}}, DefaultGenerateOptions())
	assert.ErrorContains(t, err, "row 1 has 2 cells")
}

func TestIsValidName(t *testing.T) {
	for _, name := range []string{"ID", "_x", "a-b.c1", "Billing"} {
		assert.True(t, isValidName(name), name)
	}
	for _, name := range []string{"", "1a", "a b", "xmlData", "a:b", "-a"} {
		assert.False(t, isValidName(name), name)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.xml")
	require.NoError(t, WriteFile(path, header, [][]string{{"1", "X", "X@X.com", "1.0", "X"}}, DefaultGenerateOptions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<Email>X@X.com</Email>")
}

func TestGenerateXSD(t *testing.T) {
	out, err := GenerateXSD(header, DefaultGenerateOptions())
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, `<xs:element name="clients">`)
	assert.Contains(t, text, `<xs:element name="client" minOccurs="0" maxOccurs="unbounded">`)
	assert.Contains(t, text, `<xs:element name="Billing" type="xs:string" minOccurs="0"/>`)
	assert.Contains(t, text, `<xs:attribute name="n" type="xs:positiveInteger"/>`)

	var probe struct{}
	assert.NoError(t, xml.Unmarshal(out, &probe), "xsd must be well-formed")
}

func TestWriteXSDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema", "out.xsd")
	require.NoError(t, WriteXSDFile(path, header, DefaultGenerateOptions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<xs:element name="Location" type="xs:string" minOccurs="0"/>`)

	assert.Error(t, WriteXSDFile(path, []string{"bad name"}, DefaultGenerateOptions()))
}
