package urdf

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/bestman-robotics/robot-description/referenceframe"
	"github.com/bestman-robotics/robot-description/utils"
)

const (
	packageScheme = "package://"
	fileScheme    = "file://"
)

// ResolveMeshPath maps a mesh filename from a URDF document to a path on disk.
// package://<name>/<rest> URIs are resolved against packages[name] when present and against basePath
// otherwise. Relative paths are resolved against basePath, which is normally the directory of the URDF file.
func ResolveMeshPath(filename, basePath string, packages map[string]string) (string, error) {
	meshPath := filename
	switch {
	case strings.HasPrefix(meshPath, packageScheme):
		meshPath = strings.TrimPrefix(meshPath, packageScheme)
		pkg, rest, found := strings.Cut(meshPath, "/")
		if !found || rest == "" {
			return "", errors.Errorf("malformed package URI %q", filename)
		}
		root := basePath
		if dir, ok := packages[pkg]; ok {
			root = dir
		}
		if root == "" {
			return rest, nil
		}
		return utils.SafeJoinDir(root, rest)
	case strings.HasPrefix(meshPath, fileScheme):
		return strings.TrimPrefix(meshPath, fileScheme), nil
	case basePath != "" && !filepath.IsAbs(meshPath):
		return filepath.Join(basePath, meshPath), nil
	default:
		return meshPath, nil
	}
}

// MeshFilenames returns every distinct mesh filename referenced by the visuals and collisions of the tree,
// in link declaration order.
func MeshFilenames(tree *referenceframe.Tree) []string {
	var names []string
	for _, l := range tree.Links() {
		for _, v := range l.Visuals {
			if v.Geometry.Type == referenceframe.MeshGeometry {
				names = append(names, v.Geometry.Filename)
			}
		}
		for _, c := range l.Collisions {
			if c.Geometry.Type == referenceframe.MeshGeometry {
				names = append(names, c.Geometry.Filename)
			}
		}
	}
	return lo.Uniq(names)
}

// MissingMeshes resolves every mesh the tree references and returns the filenames that could not be
// resolved or do not exist on disk.
func MissingMeshes(tree *referenceframe.Tree, basePath string, packages map[string]string) []string {
	return lo.Filter(MeshFilenames(tree), func(name string, _ int) bool {
		resolved, err := ResolveMeshPath(name, basePath, packages)
		return err != nil || !utils.FileExists(resolved)
	})
}
