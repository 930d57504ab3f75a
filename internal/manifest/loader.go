package manifest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/temirov/fastrepo/internal/filesystem"
	"github.com/temirov/fastrepo/internal/superrepo"
)

const (
	// FileName is the manifest file name inside the .repo directory.
	FileName = "manifest.xml"
	// IncludeDirectoryName holds manifests referenced by include elements.
	IncludeDirectoryName = "manifests"

	maximumIncludeDepthConstant = 8
	parentDirectoryConstant     = ".."

	manifestNotFoundMessageConstant      = "manifest not found"
	manifestParseMessageConstant         = "manifest is invalid"
	manifestNotFoundTemplateConstant     = "%w at %s"
	manifestReadTemplateConstant         = "read manifest %s: %w"
	manifestDecodeTemplateConstant       = "%w: %s: %w"
	manifestInvalidTemplateConstant      = "%w: %s: %s"
	projectMissingNameMessageConstant    = "project element missing required name attribute"
	projectEmptyPathTemplateConstant     = "project %s has an empty path attribute"
	projectAbsolutePathTemplateConstant  = "project %s path %s must be relative"
	projectEscapingPathTemplateConstant  = "project %s path %s escapes the super-repository root"
	duplicateProjectPathTemplateConstant = "projects %s and %s share checkout path %s"
	includeMissingNameMessageConstant    = "include element missing required name attribute"
	includeCycleTemplateConstant         = "include cycle through %s"
	includeDepthExceededTemplateConstant = "includes nested deeper than %d levels"
)

// Errors returned by Loader.
var (
	ErrManifestNotFound = errors.New(manifestNotFoundMessageConstant)
	ErrManifestParse    = errors.New(manifestParseMessageConstant)
)

// Loader reads manifests from a super-repository root.
type Loader struct {
	fileSystem filesystem.FileSystem
}

// NewLoader constructs a Loader; a nil fileSystem selects the operating system.
func NewLoader(fileSystem filesystem.FileSystem) *Loader {
	return &Loader{fileSystem: filesystem.Resolve(fileSystem)}
}

// Path returns the manifest location for a super-repository root.
func Path(rootDirectory string) string {
	return filepath.Join(rootDirectory, superrepo.MarkerDirectoryName, FileName)
}

// Load reads and validates the manifest of the super-repository at rootDirectory.
// Projects of included manifests follow the projects of the including document.
func (loader *Loader) Load(rootDirectory string) (Manifest, error) {
	manifestPath := Path(rootDirectory)
	includeDirectory := filepath.Join(rootDirectory, superrepo.MarkerDirectoryName, IncludeDirectoryName)

	loadedManifest, loadError := loader.loadDocument(manifestPath, includeDirectory, 0, map[string]struct{}{})
	if loadError != nil {
		return Manifest{}, loadError
	}

	if validationError := validateUniquePaths(manifestPath, loadedManifest.Projects); validationError != nil {
		return Manifest{}, validationError
	}
	return loadedManifest, nil
}

func (loader *Loader) loadDocument(documentPath string, includeDirectory string, depth int, visited map[string]struct{}) (Manifest, error) {
	if depth > maximumIncludeDepthConstant {
		return Manifest{}, fmt.Errorf(manifestInvalidTemplateConstant, ErrManifestParse, documentPath, fmt.Sprintf(includeDepthExceededTemplateConstant, maximumIncludeDepthConstant))
	}
	if _, seen := visited[documentPath]; seen {
		return Manifest{}, fmt.Errorf(manifestInvalidTemplateConstant, ErrManifestParse, documentPath, fmt.Sprintf(includeCycleTemplateConstant, documentPath))
	}
	visited[documentPath] = struct{}{}
	defer delete(visited, documentPath)

	document, decodeError := loader.decode(documentPath)
	if decodeError != nil {
		return Manifest{}, decodeError
	}

	for _, include := range document.Includes {
		includeName := strings.TrimSpace(include.Name)
		if len(includeName) == 0 {
			return Manifest{}, fmt.Errorf(manifestInvalidTemplateConstant, ErrManifestParse, documentPath, includeMissingNameMessageConstant)
		}

		includedManifest, includeError := loader.loadDocument(filepath.Join(includeDirectory, filepath.FromSlash(includeName)), includeDirectory, depth+1, visited)
		if includeError != nil {
			return Manifest{}, includeError
		}

		document.Remotes = append(document.Remotes, includedManifest.Remotes...)
		document.Defaults = append(document.Defaults, includedManifest.Defaults...)
		document.Projects = append(document.Projects, includedManifest.Projects...)
	}

	return document, nil
}

func (loader *Loader) decode(documentPath string) (Manifest, error) {
	if _, statError := loader.fileSystem.Stat(documentPath); statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return Manifest{}, fmt.Errorf(manifestNotFoundTemplateConstant, ErrManifestNotFound, documentPath)
		}
		return Manifest{}, fmt.Errorf(manifestReadTemplateConstant, documentPath, statError)
	}

	content, readError := loader.fileSystem.ReadFile(documentPath)
	if readError != nil {
		return Manifest{}, fmt.Errorf(manifestReadTemplateConstant, documentPath, readError)
	}

	var document Manifest
	if unmarshalError := xml.Unmarshal(content, &document); unmarshalError != nil {
		return Manifest{}, fmt.Errorf(manifestDecodeTemplateConstant, ErrManifestParse, documentPath, unmarshalError)
	}

	for _, project := range document.Projects {
		if problem := describeProjectProblem(project); len(problem) > 0 {
			return Manifest{}, fmt.Errorf(manifestInvalidTemplateConstant, ErrManifestParse, documentPath, problem)
		}
	}

	return document, nil
}

func describeProjectProblem(project Project) string {
	if len(strings.TrimSpace(project.Name)) == 0 {
		return projectMissingNameMessageConstant
	}

	if project.Path != nil && len(strings.TrimSpace(*project.Path)) == 0 {
		return fmt.Sprintf(projectEmptyPathTemplateConstant, project.Name)
	}

	effectivePath := project.EffectivePath()
	if path.IsAbs(effectivePath) || filepath.IsAbs(effectivePath) {
		return fmt.Sprintf(projectAbsolutePathTemplateConstant, project.Name, effectivePath)
	}
	if effectivePath == parentDirectoryConstant || strings.HasPrefix(effectivePath, parentDirectoryConstant+"/") {
		return fmt.Sprintf(projectEscapingPathTemplateConstant, project.Name, effectivePath)
	}
	return ""
}

func validateUniquePaths(manifestPath string, projects []Project) error {
	ownerByPath := make(map[string]string, len(projects))
	for _, project := range projects {
		effectivePath := project.EffectivePath()
		if existingOwner, exists := ownerByPath[effectivePath]; exists {
			return fmt.Errorf(manifestInvalidTemplateConstant, ErrManifestParse, manifestPath, fmt.Sprintf(duplicateProjectPathTemplateConstant, existingOwner, project.Name, effectivePath))
		}
		ownerByPath[effectivePath] = project.Name
	}
	return nil
}
