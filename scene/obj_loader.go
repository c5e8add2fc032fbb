package scene

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"scene-viewer/core"
	"scene-viewer/math"
)

// objFace is an already-triangulated face (three vertex references).
type objFace struct {
	vIdx, vtIdx, vnIdx [3]int // 0-based position / UV / normal indices (-1 = absent)
}

type objVertexRef struct{ v, vt, vn int }

// LoadOBJ parses a Wavefront .obj file into a flat triangle scene with one
// mesh range per object/group. A companion .mtl file is loaded when
// referenced via "mtllib"; faces without a known material use the default.
func LoadOBJ(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)

	// Indexed OBJ data pools
	var positions []math.Vec3
	var normals []math.Vec3
	var uvs []math.Vec2

	materials := map[string]*Material{}

	type objObject struct {
		name    string
		matName string
		faces   []objFace
	}

	var objects []objObject
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj %q line %d: %w", path, lineNo, err)
			}
			positions = append(positions, v)

		case "vn":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj %q line %d: %w", path, lineNo, err)
			}
			normals = append(normals, v)

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("obj %q line %d: texture coordinate needs two components", path, lineNo)
			}
			u, err1 := strconv.ParseFloat(fields[1], 32)
			v, err2 := strconv.ParseFloat(fields[2], 32)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("obj %q line %d: malformed texture coordinate", path, lineNo)
			}
			uvs = append(uvs, math.Vec2{X: float32(u), Y: float32(v)})

		case "o", "g":
			if len(cur.faces) > 0 {
				objects = append(objects, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name, matName: cur.matName}

		case "usemtl":
			if len(fields) > 1 {
				// A material switch inside an object starts a new mesh range.
				if len(cur.faces) > 0 {
					objects = append(objects, *cur)
					cur = &objObject{name: cur.name}
				}
				cur.matName = fields[1]
			}

		case "mtllib":
			for _, lib := range fields[1:] {
				loaded, err := loadMTL(filepath.Join(dir, lib), dir)
				if err != nil {
					slog.Warn("skipping material library", "path", lib, "error", err)
					continue
				}
				for k, v := range loaded {
					materials[k] = v
				}
			}

		case "f":
			if len(fields) < 4 {
				continue
			}
			fverts := make([]objVertexRef, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				fverts = append(fverts, parseFaceVertex(tok, len(positions), len(uvs), len(normals)))
			}
			// Fan triangulation: 0-1-2, 0-2-3, 0-3-4, ...
			for i := 1; i+1 < len(fverts); i++ {
				f0, f1, f2 := fverts[0], fverts[i], fverts[i+1]
				cur.faces = append(cur.faces, objFace{
					vIdx:  [3]int{f0.v, f1.v, f2.v},
					vtIdx: [3]int{f0.vt, f1.vt, f2.vt},
					vnIdx: [3]int{f0.vn, f1.vn, f2.vn},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj %q: %w", path, err)
	}

	if len(cur.faces) > 0 {
		objects = append(objects, *cur)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("no geometry found in %q", path)
	}

	s := NewScene(path)
	matIndex := map[string]int{}
	for _, obj := range objects {
		idx, ok := matIndex[obj.matName]
		if !ok {
			mat, found := materials[obj.matName]
			if !found {
				mat = DefaultMaterial()
				if obj.matName != "" {
					mat.Name = obj.matName
				}
			}
			idx = s.AddMaterial(mat)
			matIndex[obj.matName] = idx
		}

		s.AddMesh(obj.name, buildOBJTriangles(obj.faces, positions, normals, uvs), idx)
	}

	return s, nil
}

func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var out [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = float32(f)
	}
	return math.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

// parseFaceVertex parses one face vertex token: "v", "v/vt", "v//vn",
// "v/vt/vn". OBJ indices are 1-based and negative values count back from the
// end of the pool; the result is 0-based with -1 meaning absent.
func parseFaceVertex(tok string, nv, nvt, nvn int) objVertexRef {
	parseIdx := func(s string, n int) int {
		if s == "" {
			return -1
		}
		i, err := strconv.Atoi(s)
		if err != nil || i == 0 {
			return -1
		}
		if i > 0 {
			return i - 1
		}
		return n + i
	}
	parts := strings.Split(tok, "/")
	res := objVertexRef{v: -1, vt: -1, vn: -1}
	if len(parts) > 0 {
		res.v = parseIdx(parts[0], nv)
	}
	if len(parts) > 1 {
		res.vt = parseIdx(parts[1], nvt)
	}
	if len(parts) > 2 {
		res.vn = parseIdx(parts[2], nvn)
	}
	return res
}

// buildOBJTriangles expands indexed faces into a flat vertex list. Faces
// without normals get their geometric face normal.
func buildOBJTriangles(faces []objFace, positions, normals []math.Vec3, uvs []math.Vec2) []core.Vertex {
	safePos := func(i int) math.Vec3 {
		if i >= 0 && i < len(positions) {
			return positions[i]
		}
		return math.Vec3Zero
	}
	safeUV := func(i int) math.Vec2 {
		if i >= 0 && i < len(uvs) {
			return uvs[i]
		}
		return math.Vec2{}
	}

	vertices := make([]core.Vertex, 0, len(faces)*3)
	for _, face := range faces {
		p := [3]math.Vec3{safePos(face.vIdx[0]), safePos(face.vIdx[1]), safePos(face.vIdx[2])}
		flat := faceNormal(p[0], p[1], p[2])

		for c := 0; c < 3; c++ {
			n := flat
			if i := face.vnIdx[c]; i >= 0 && i < len(normals) {
				n = normals[i].Normalize()
			}
			vertices = append(vertices, core.Vertex{
				Position: p[c],
				Normal:   n,
				Color:    core.ColorWhite.RGB(),
				UV:       safeUV(face.vtIdx[c]),
			})
		}
	}
	return vertices
}

// ── MTL loader ───────────────────────────────────────────────────────────────

func loadMTL(path, dir string) (map[string]*Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mats := map[string]*Material{}
	var cur *Material

	parseColor := func(fields []string) (core.Color, bool) {
		v, err := parseVec3(fields)
		if err != nil {
			return core.Color{}, false
		}
		return core.Color{R: v.X, G: v.Y, B: v.Z, A: 1}, true
	}
	parseScalar := func(fields []string) (float32, bool) {
		if len(fields) < 1 {
			return 0, false
		}
		v, err := strconv.ParseFloat(fields[0], 32)
		return float32(v), err == nil
	}
	loadMap := func(fields []string) *Texture {
		if len(fields) < 1 {
			return nil
		}
		// Options such as -bm precede the file name, which is always last.
		texPath := filepath.Join(dir, fields[len(fields)-1])
		tex, err := LoadTexture(texPath)
		if err != nil {
			slog.Warn("skipping texture", "path", texPath, "error", err)
			return nil
		}
		return tex
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		if fields[0] == "newmtl" {
			if len(fields) > 1 {
				cur = DefaultMaterial()
				cur.Name = fields[1]
				mats[fields[1]] = cur
			}
			continue
		}
		if cur == nil {
			continue
		}

		args := fields[1:]
		switch fields[0] {
		case "Kd":
			if c, ok := parseColor(args); ok {
				cur.Diffuse = c
			}
		case "Ks":
			if c, ok := parseColor(args); ok {
				cur.Specular = c
			}
		case "Ns":
			if v, ok := parseScalar(args); ok {
				cur.Shininess = maxf(1, v)
			}
		case "Pr":
			if v, ok := parseScalar(args); ok {
				cur.Roughness = v
			}
		case "Pm":
			if v, ok := parseScalar(args); ok {
				cur.Metallic = v
			}
		case "map_Kd":
			cur.DiffuseTexture = loadMap(args)
		case "map_RMA", "map_rma":
			cur.RMATexture = loadMap(args)
		case "map_Bump", "map_bump", "bump", "norm", "map_Kn":
			cur.NormalTexture = loadMap(args)
		}
	}

	return mats, scanner.Err()
}
