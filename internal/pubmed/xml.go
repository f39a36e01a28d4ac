// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/xml"
	"strings"
)

// efetch PubmedArticleSet XML structures. Only the elements the curator
// uses are mapped.
type articleSet struct {
	XMLName  xml.Name
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation struct {
		PMID         mixedText     `xml:"PMID"`
		Article      article       `xml:"Article"`
		KeywordLists []keywordList `xml:"KeywordList"`
		MeshHeadings []meshHeading `xml:"MeshHeadingList>MeshHeading"`
	} `xml:"MedlineCitation"`
	PubmedData struct {
		ArticleIDs []articleID `xml:"ArticleIdList>ArticleId"`
	} `xml:"PubmedData"`
}

type article struct {
	Title   mixedText `xml:"ArticleTitle"`
	Journal struct {
		Issue struct {
			PubDate pubDate `xml:"PubDate"`
		} `xml:"JournalIssue"`
	} `xml:"Journal"`
	Abstract struct {
		Texts []abstractText `xml:"AbstractText"`
	} `xml:"Abstract"`
	Authors      []author    `xml:"AuthorList>Author"`
	ELocationIDs []eLocation `xml:"ELocationID"`
}

type pubDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

// String renders the date the way PubMed displays it, e.g. "2021 Mar 4",
// or the free-form MedlineDate when no structured year is given.
func (d pubDate) String() string {
	if d.Year == "" {
		return strings.TrimSpace(d.MedlineDate)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(d.Year+" "+d.Month+" "+d.Day), " "))
}

// abstractText is one paragraph of a (possibly structured) abstract.
type abstractText struct {
	Label string
	Text  string
}

func (a *abstractText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "Label" {
			a.Label = attr.Value
		}
	}
	var m mixedText
	if err := m.UnmarshalXML(d, start); err != nil {
		return err
	}
	a.Text = m.Text
	return nil
}

type author struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	Initials       string `xml:"Initials"`
	CollectiveName string `xml:"CollectiveName"`
}

func (a author) displayName() string {
	if a.CollectiveName != "" {
		return a.CollectiveName
	}
	first := a.ForeName
	if first == "" {
		first = a.Initials
	}
	return strings.TrimSpace(first + " " + a.LastName)
}

type eLocation struct {
	Type  string `xml:"EIdType,attr"`
	Valid string `xml:"ValidYN,attr"`
	Text  string `xml:",chardata"`
}

type articleID struct {
	Type string `xml:"IdType,attr"`
	Text string `xml:",chardata"`
}

type keywordList struct {
	Keywords []mixedText `xml:"Keyword"`
}

type meshHeading struct {
	Descriptor mixedText `xml:"DescriptorName"`
}

// mixedText collects all character data of an element, including text
// inside inline markup such as <i> or <sup> that PubMed leaves in titles
// and abstracts.
type mixedText struct {
	Text string
}

func (m *mixedText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if t.Name == start.Name {
				m.Text = b.String()
				return nil
			}
		}
	}
}
