package manifest

import (
	"encoding/xml"
	"path/filepath"
	"strings"
)

const groupSeparatorsConstant = ", \t\n"

// Manifest is the decoded manifest document.
type Manifest struct {
	XMLName  xml.Name  `xml:"manifest"`
	Remotes  []Remote  `xml:"remote"`
	Defaults []Default `xml:"default"`
	Projects []Project `xml:"project"`
	Includes []Include `xml:"include"`
}

// Remote describes a fetch location declared by the manifest.
type Remote struct {
	Name   string `xml:"name,attr"`
	Fetch  string `xml:"fetch,attr"`
	Review string `xml:"review,attr"`
}

// Default carries manifest-wide fallback attributes.
type Default struct {
	Revision string `xml:"revision,attr"`
	Remote   string `xml:"remote,attr"`
}

// Include references another manifest file under .repo/manifests.
type Include struct {
	Name string `xml:"name,attr"`
}

// Project is one member repository of the super-repository.
type Project struct {
	Name     string  `xml:"name,attr"`
	Path     *string `xml:"path,attr"`
	Revision *string `xml:"revision,attr"`
	Groups   *string `xml:"groups,attr"`
}

// EffectivePath returns the checkout location relative to the super-repository root.
func (project Project) EffectivePath() string {
	checkoutPath := project.Name
	if project.Path != nil {
		checkoutPath = *project.Path
	}
	return filepath.ToSlash(filepath.Clean(strings.TrimSpace(checkoutPath)))
}

// GroupNames splits the groups attribute into individual group names.
func (project Project) GroupNames() []string {
	if project.Groups == nil {
		return nil
	}
	return strings.FieldsFunc(*project.Groups, func(character rune) bool {
		return strings.ContainsRune(groupSeparatorsConstant, character)
	})
}
