// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest models the package.xml retrieval manifest consumed by
// the Salesforce CLI.
package manifest

import (
	"encoding/xml"
	"os"
)

// Xmlns is the Metadata API namespace.
const Xmlns = "http://soap.sforce.com/2006/04/metadata"

// Wildcard requests every member of a metadata type.
const Wildcard = "*"

type Package struct {
	XMLName xml.Name       `xml:"Package"`
	Xmlns   string         `xml:"xmlns,attr"`
	Types   []MetadataType `xml:"types"`
	Version string         `xml:"version"`
}

type MetadataType struct {
	Members []string `xml:"members"`
	Name    string   `xml:"name"`
}

// DefaultTypes returns the metadata types fetched when the caller does not
// supply its own list.
func DefaultTypes() []string {
	return []string{
		"ApexClass",
		"ApexTrigger",
		"ApexPage",
		"ApexComponent",
		"CustomObject",
		"Flow",
		"Layout",
		"PermissionSet",
		"CustomTab",
		"StaticResource",
	}
}

// New builds a wildcard manifest for the given API version and type names.
// An empty typeNames falls back to DefaultTypes.
func New(apiVersion string, typeNames []string) *Package {
	if len(typeNames) == 0 {
		typeNames = DefaultTypes()
	}
	types := make([]MetadataType, 0, len(typeNames))
	for _, name := range typeNames {
		types = append(types, MetadataType{
			Members: []string{Wildcard},
			Name:    name,
		})
	}
	return &Package{
		Xmlns:   Xmlns,
		Types:   types,
		Version: apiVersion,
	}
}

// Marshal serializes the manifest with the XML declaration prepended.
func (p *Package) Marshal() ([]byte, error) {
	b, err := xml.MarshalIndent(p, "", "    ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(b, '\n')...), nil
}

// WriteFile serializes the manifest to path.
func (p *Package) WriteFile(path string) error {
	b, err := p.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
