package repository

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// Detector identifies the project root holding the client and server trees
type Detector struct {
	// folders that together mark the project root
	sides []string
	// fallback marker files/directories
	markers []string
	fs      afs.Service
}

// New creates a new project detector for the given side folders
func New(sides ...string) *Detector {
	return &Detector{
		sides: sides,
		markers: []string{
			"package.json", // JavaScript/Node projects
			"go.mod",       // Go tooling next to the sources
			".git",         // Generic VCS marker
		},
		fs: afs.New(),
	}
}

// DetectProject finds the project root for the given path. The nearest ancestor holding any side
// folder wins; otherwise the nearest ancestor with a marker; otherwise the path itself.
func (d *Detector) DetectProject(location string) (*Project, error) {
	absPath, err := filepath.Abs(location)
	if err != nil {
		return nil, err
	}
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	root := startDir
	if sidesRoot := d.findSidesRoot(startDir); sidesRoot != "" {
		root = sidesRoot
	} else if markerRoot := d.findProjectRoot(startDir); markerRoot != "" {
		root = markerRoot
	}
	return d.Describe(root), nil
}

// Describe reports the kind, name and origin of an already known project root
func (d *Detector) Describe(root string) *Project {
	info := &Project{Root: root, Type: "unknown"}
	if d.holdsSide(root) {
		info.Type = "sides"
	} else {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
				info.Type = determineProjectType(marker)
				break
			}
		}
	}
	info.Name = d.extractProjectName(root)
	info.Origin = extractGitOrigin(root)
	return info
}

func (d *Detector) holdsSide(dir string) bool {
	for _, side := range d.sides {
		if isDir(filepath.Join(dir, side)) {
			return true
		}
	}
	return false
}

// findSidesRoot searches up from startDir for a folder containing a side directory
func (d *Detector) findSidesRoot(startDir string) string {
	for dir := startDir; ; {
		if d.holdsSide(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// findProjectRoot searches up from the current directory for project markers
func (d *Detector) findProjectRoot(startDir string) string {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// extractProjectName reads package.json, then go.mod, then the git origin, falling back to the folder name
func (d *Detector) extractProjectName(rootPath string) string {
	if name := extractJSPackageName(filepath.Join(rootPath, "package.json")); name != "" {
		return name
	}
	if name := d.extractGoModuleName(filepath.Join(rootPath, "go.mod")); name != "" {
		return name
	}
	if origin := extractGitOrigin(rootPath); origin != "" {
		parts := strings.Split(strings.TrimSuffix(origin, ".git"), "/")
		return parts[len(parts)-1]
	}
	return filepath.Base(rootPath)
}

func (d *Detector) extractGoModuleName(goModPath string) string {
	content, _ := d.fs.DownloadWithURL(context.Background(), goModPath)
	if len(content) == 0 {
		return ""
	}
	if mod, _ := modfile.Parse(goModPath, content, nil); mod != nil && mod.Module != nil {
		return mod.Module.Mod.Path
	}
	return ""
}

var packageNamePattern = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)

func extractJSPackageName(packageJSONPath string) string {
	data, err := os.ReadFile(packageJSONPath)
	if err != nil {
		return ""
	}
	matches := packageNamePattern.FindSubmatch(data)
	if len(matches) < 2 {
		return ""
	}
	return string(matches[1])
}

// extractGitOrigin extracts the origin URL from git config
func extractGitOrigin(gitRoot string) string {
	file, err := os.Open(filepath.Join(gitRoot, ".git", "config"))
	if err != nil {
		return ""
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	foundRemote := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "[remote \"origin\"]") {
			foundRemote = true
			continue
		}
		if foundRemote && strings.HasPrefix(line, "url = ") {
			return strings.TrimPrefix(line, "url = ")
		}
	}
	return ""
}

// determineProjectType identifies the type of project based on the marker file
func determineProjectType(marker string) string {
	switch marker {
	case "go.mod":
		return "go"
	case "package.json":
		return "javascript"
	case ".git":
		return "git"
	default:
		return "unknown"
	}
}

func isDir(location string) bool {
	info, err := os.Stat(location)
	return err == nil && info.IsDir()
}
