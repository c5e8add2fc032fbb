package scene

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"scene-viewer/core"
	"scene-viewer/math"
)

// LoadGLTF opens a .glb or .gltf file and flattens every triangle primitive
// reachable from the default scene into world space. Base color, metallic
// roughness and normal textures are decoded onto the materials.
func LoadGLTF(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)
	s := NewScene(path)

	// ── 1. Textures ───────────────────────────────────────────────────────────
	texCache := make([]*Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		img := doc.Images[*gt.Source]

		var tex *Texture
		if img.BufferView != nil {
			// Binary GLB: image data lives in a buffer view
			raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				slog.Warn("gltf image buffer view", "image", *gt.Source, "error", err)
				continue
			}
			name := img.Name
			if name == "" {
				name = fmt.Sprintf("gltf_img_%d", *gt.Source)
			}
			tex, err = decodeImageBytes(name, raw)
			if err != nil {
				slog.Warn("gltf image decode", "image", *gt.Source, "error", err)
				continue
			}
		} else if img.URI != "" && !img.IsEmbeddedResource() {
			// External file referenced by relative URI
			tex, err = LoadTexture(filepath.Join(dir, img.URI))
			if err != nil {
				slog.Warn("gltf image load", "image", *gt.Source, "uri", img.URI, "error", err)
				continue
			}
		}
		texCache[i] = tex
	}
	lookupTex := func(idx int) *Texture {
		if idx >= 0 && idx < len(texCache) {
			return texCache[idx]
		}
		return nil
	}

	// ── 2. Materials ─────────────────────────────────────────────────────────
	// Index 0 is the fallback for primitives without a material.
	fallback := s.AddMaterial(DefaultMaterial())
	matIndex := make([]int, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := DefaultMaterial()
		mat.Name = gm.Name

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.Diffuse = core.Color{
				R: float32(cf[0]), G: float32(cf[1]),
				B: float32(cf[2]), A: float32(cf[3]),
			}
			mat.Roughness = float32(pbr.RoughnessFactorOrDefault())
			mat.Metallic = float32(pbr.MetallicFactorOrDefault())
			if pbr.BaseColorTexture != nil {
				mat.DiffuseTexture = lookupTex(pbr.BaseColorTexture.Index)
			}
			if pbr.MetallicRoughnessTexture != nil {
				mat.RMATexture = lookupTex(pbr.MetallicRoughnessTexture.Index)
			}
		}
		if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
			mat.NormalTexture = lookupTex(*gm.NormalTexture.Index)
		}
		matIndex[i] = s.AddMaterial(mat)
	}

	// ── 3. Node walk ──────────────────────────────────────────────────────────
	var visit func(nodeIdx int, parent math.Mat4, depth int) error
	visit = func(nodeIdx int, parent math.Mat4, depth int) error {
		if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) || depth > len(doc.Nodes) {
			return nil
		}
		gn := doc.Nodes[nodeIdx]
		world := parent.Mul(nodeLocalMatrix(gn))

		if gn.Mesh != nil && *gn.Mesh < len(doc.Meshes) {
			gm := doc.Meshes[*gn.Mesh]
			for pi, prim := range gm.Primitives {
				name := gm.Name
				if name == "" {
					name = fmt.Sprintf("mesh_%d", *gn.Mesh)
				}
				name = fmt.Sprintf("%s_p%d", name, pi)

				verts, err := loadGLTFPrimitive(doc, prim, world)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				if verts == nil {
					slog.Debug("skipping non-triangle primitive", "mesh", name, "mode", prim.Mode)
					continue
				}

				idx := fallback
				if prim.Material != nil && *prim.Material < len(matIndex) {
					idx = matIndex[*prim.Material]
				}
				s.AddMesh(name, verts, idx)
			}
		}

		for _, child := range gn.Children {
			if err := visit(child, world, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range gltfRoots(doc) {
		if err := visit(root, math.Mat4Identity(), 0); err != nil {
			return nil, fmt.Errorf("gltf %q: %w", path, err)
		}
	}
	if len(s.Vertices) == 0 {
		return nil, fmt.Errorf("no geometry found in %q", path)
	}
	return s, nil
}

// gltfRoots returns the default scene's root nodes, or every parentless
// node when the document has no default scene.
func gltfRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// nodeLocalMatrix composes T * R * S from the node's TRS properties.
func nodeLocalMatrix(gn *gltf.Node) math.Mat4 {
	t := gn.TranslationOrDefault()
	sc := gn.ScaleOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]

	rot := math.Quaternion{
		X: float32(r[0]), Y: float32(r[1]),
		Z: float32(r[2]), W: float32(r[3]),
	}.Normalize()

	return math.Mat4Translation(math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}).
		Mul(rot.ToMat4()).
		Mul(math.Mat4Scale(math.Vec3{X: float32(sc[0]), Y: float32(sc[1]), Z: float32(sc[2])}))
}

// loadGLTFPrimitive expands one primitive into world-space triangles. It
// returns nil, nil for primitives that are not triangle lists.
func loadGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive, world math.Mat4) ([]core.Vertex, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, nil
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	normalMatrix, err := math.NormalMatrix(world)
	if err != nil {
		// Collapsed transform; normals fall back to face normals below.
		normalMatrix = math.Mat3Identity()
		normals = nil
	}

	vertexAt := func(i uint32) core.Vertex {
		p := positions[i]
		v := core.Vertex{
			Position: world.MulPoint(math.Vec3{X: p[0], Y: p[1], Z: p[2]}),
			Color:    core.ColorWhite.RGB(),
		}
		if int(i) < len(normals) {
			n := normals[i]
			v.Normal = normalMatrix.MulVec(math.Vec3{X: n[0], Y: n[1], Z: n[2]}).Normalize()
		}
		if int(i) < len(uvs) {
			v.UV = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
		return v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	verts := make([]core.Vertex, 0, len(indices)/3*3)
	for i := 0; i+2 < len(indices); i += 3 {
		tri := [3]uint32{indices[i], indices[i+1], indices[i+2]}
		if int(tri[0]) >= len(positions) || int(tri[1]) >= len(positions) || int(tri[2]) >= len(positions) {
			return nil, fmt.Errorf("index out of range at triangle %d", i/3)
		}
		v0, v1, v2 := vertexAt(tri[0]), vertexAt(tri[1]), vertexAt(tri[2])
		if len(normals) == 0 {
			n := faceNormal(v0.Position, v1.Position, v2.Position)
			v0.Normal, v1.Normal, v2.Normal = n, n, n
		}
		verts = append(verts, v0, v1, v2)
	}
	return verts, nil
}
