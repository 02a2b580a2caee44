package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const xmlRoot = "SecuritySuitabilityPolicy"

// parseXML reads a TS 119 312 policy. Element lookups ignore namespace
// prefixes, so both prefixed and default-namespace documents load.
func parseXML(data []byte) (metadataDoc, []rawEntry, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return metadataDoc{}, nil, fmt.Errorf("%w: failed to parse XML: %w", ErrInvalidDocument, err)
	}
	root := doc.Root()
	if root == nil {
		return metadataDoc{}, nil, fmt.Errorf("%w: empty XML document", ErrInvalidDocument)
	}
	if root.Tag != xmlRoot {
		return metadataDoc{}, nil, fmt.Errorf("%w: root element is %s, expected %s", ErrInvalidDocument, root.Tag, xmlRoot)
	}

	meta := metadataDoc{
		Version:  root.SelectAttrValue("version", ""),
		Language: root.SelectAttrValue("lang", ""),
		ID:       root.SelectAttrValue("id", ""),
	}
	if name := root.SelectElement("PolicyName"); name != nil {
		meta.PolicyName = childText(name, "Name")
		if oid := name.SelectElement("ObjectIdentifier"); oid != nil {
			meta.PolicyOID = childText(oid, "Identifier")
		}
		meta.PolicyURI = childText(name, "URI")
	}
	if pub := root.SelectElement("Publisher"); pub != nil {
		meta.Publisher = publisherDoc{
			Name:    childText(pub, "Name"),
			Address: childText(pub, "Address"),
			URI:     childText(pub, "URI"),
		}
	}
	meta.IssueDate = childText(root, "PolicyIssueDate")
	if next := root.SelectElement("NextUpdate"); next != nil {
		meta.NextUpdate = childText(next, "dateTime")
		if meta.NextUpdate == "" {
			meta.NextUpdate = text(next)
		}
	}
	meta.Usage = childText(root, "Usage")

	algs := root.SelectElements("Algorithm")
	if algs == nil {
		return meta, nil, nil
	}
	entries := make([]rawEntry, 0, len(algs))
	for _, el := range algs {
		entries = append(entries, xmlEntry(el))
	}
	return meta, entries, nil
}

func xmlEntry(el *etree.Element) rawEntry {
	var e entryDoc
	if id := el.SelectElement("AlgorithmIdentifier"); id != nil {
		e.Name = childText(id, "Name")
		for _, oid := range id.SelectElements("ObjectIdentifier") {
			if s := childText(oid, "Identifier"); s != "" {
				e.OIDs = append(e.OIDs, s)
			}
		}
		for _, uri := range id.SelectElements("URI") {
			if s := text(uri); s != "" {
				e.URIs = append(e.URIs, s)
			}
		}
	}
	if info := el.SelectElement("Information"); info != nil {
		for _, t := range info.SelectElements("Text") {
			e.Information = append(e.Information, text(t))
		}
	}

	for _, evEl := range el.SelectElements("Evaluation") {
		ev, err := xmlEvaluation(evEl)
		if err != nil {
			return rawEntry{doc: e, decodeErr: err}
		}
		e.Evaluations = append(e.Evaluations, ev)
	}
	return rawEntry{doc: e}
}

func xmlEvaluation(el *etree.Element) (evaluationDoc, error) {
	var ev evaluationDoc
	for _, p := range el.SelectElements("Parameter") {
		param := parameterDoc{Name: p.SelectAttrValue("name", "")}
		var err error
		if param.Min, err = optionalInt(childText(p, "Min")); err != nil {
			return ev, fmt.Errorf("parameter %s min: %w", param.Name, err)
		}
		if param.Max, err = optionalInt(childText(p, "Max")); err != nil {
			return ev, fmt.Errorf("parameter %s max: %w", param.Name, err)
		}
		ev.Parameters = append(ev.Parameters, param)
	}
	if v := el.SelectElement("Validity"); v != nil {
		ev.Start = childText(v, "Start")
		ev.End = childText(v, "End")
	}
	for _, ext := range el.SelectElements("Extension") {
		for _, u := range ext.SelectElements("AlgorithmUsage") {
			ev.Usages = append(ev.Usages, text(u))
		}
		if rec := childText(ext, "Recommendation"); rec != "" {
			ev.Recommendation = rec
		}
	}
	return ev, nil
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	return &n, nil
}

func childText(el *etree.Element, tag string) string {
	if c := el.SelectElement(tag); c != nil {
		return text(c)
	}
	return ""
}

func text(el *etree.Element) string {
	return strings.TrimSpace(el.Text())
}
