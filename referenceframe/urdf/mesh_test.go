package urdf

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestResolveMeshPath(t *testing.T) {
	packages := map[string]string{"gantry_description": "/opt/ros/share/gantry_description"}
	for _, tc := range []struct {
		filename string
		base     string
		expected string
	}{
		{"package://gantry_description/meshes/a.stl", "/robots", "/opt/ros/share/gantry_description/meshes/a.stl"},
		{"package://other/meshes/a.stl", "/robots", "/robots/meshes/a.stl"},
		{"package://other/meshes/a.stl", "", "meshes/a.stl"},
		{"file:///data/a.dae", "/robots", "/data/a.dae"},
		{"meshes/a.stl", "/robots", "/robots/meshes/a.stl"},
		{"/abs/a.stl", "/robots", "/abs/a.stl"},
		{"meshes/a.stl", "", "meshes/a.stl"},
	} {
		resolved, err := ResolveMeshPath(tc.filename, tc.base, packages)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, resolved, test.ShouldEqual, tc.expected)
	}

	_, err := ResolveMeshPath("package://gantry_description", "", packages)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = ResolveMeshPath("package://gantry_description/../../../etc/passwd", "", packages)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestMissingMeshes(t *testing.T) {
	tree := loadGantry(t)
	test.That(t, MeshFilenames(tree), test.ShouldResemble, []string{"package://gantry_description/meshes/spindle.stl"})

	dir := t.TempDir()
	packages := map[string]string{"gantry_description": dir}
	test.That(t, MissingMeshes(tree, "", packages), test.ShouldResemble, []string{"package://gantry_description/meshes/spindle.stl"})

	test.That(t, os.MkdirAll(filepath.Join(dir, "meshes"), 0o750), test.ShouldBeNil)
	test.That(t, os.WriteFile(filepath.Join(dir, "meshes", "spindle.stl"), []byte("solid"), 0o600), test.ShouldBeNil)
	test.That(t, MissingMeshes(tree, "", packages), test.ShouldBeEmpty)
}
