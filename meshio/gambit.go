package meshio

import (
	"fmt"

	"github.com/notargets/gocfd/DG3D/mesh/readers"

	"github.com/notargets/DGProbe/element/library"
	"github.com/notargets/DGProbe/geometry"
)

// ReadTetMesh reads a mesh file and keeps its four vertex cells. Other cell
// types are dropped, and a file without tetrahedra is an error.
func ReadTetMesh(path string) (*Mesh, error) {
	msh, err := readers.ReadMeshFile(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: reading %s: %w", path, err)
	}

	m := &Mesh{
		NLayers:   1,
		Coords:    geometry.Dat{Dim: 3, Values: make([]float64, 0, 3*len(msh.Vertices))},
		CoordsMap: geometry.Map{Arity: 4},
		Element:   library.NewTet(),
	}
	for _, v := range msh.Vertices {
		m.Coords.Values = append(m.Coords.Values, v[0], v[1], v[2])
	}
	for _, verts := range msh.EtoV {
		if len(verts) != 4 {
			continue
		}
		m.CoordsMap.Values = append(m.CoordsMap.Values, verts...)
		m.NCols++
	}
	if m.NCols == 0 {
		return nil, fmt.Errorf("meshio: mesh file %s does not have any tets", path)
	}
	return m, nil
}
