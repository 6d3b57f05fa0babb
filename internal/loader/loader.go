package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"OrbitGL/internal/logger"
	"OrbitGL/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// LoadWavefront reads every object of an OBJ file. Faces are triangulated
// and each mesh holds one vertex per face corner, without indices. The
// meshes are not uploaded; call Setup on each one with a current context.
func LoadWavefront(filename string) ([]renderer.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		logger.Log.Error("Failed to open model", zap.String("path", filename), zap.Error(err))
		return nil, fmt.Errorf("load model %s: %w", filename, err)
	}
	defer file.Close()

	meshes, err := ParseWavefront(file, strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if err != nil {
		logger.Log.Error("Failed to parse model", zap.String("path", filename), zap.Error(err))
		return nil, fmt.Errorf("load model %s: %w", filename, err)
	}

	logger.Log.Debug("Model loaded",
		zap.String("path", filename),
		zap.Int("meshes", len(meshes)))
	return meshes, nil
}

type objReader struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	texCoords []mgl32.Vec2

	meshes  []renderer.Mesh
	current int // index in meshes, -1 before the first object
}

// startObject opens a new mesh. An object that received no face is reused
// so that a leading "o" after stray "g" lines does not produce empty meshes.
func (r *objReader) startObject(name string) {
	if r.current >= 0 && len(r.meshes[r.current].Vertices) == 0 {
		r.meshes[r.current].Name = name
		return
	}
	r.meshes = append(r.meshes, renderer.Mesh{Name: name})
	r.current = len(r.meshes) - 1
}

// ParseWavefront parses OBJ text. name labels the first object when the file
// does not name it.
func ParseWavefront(in io.Reader, name string) ([]renderer.Mesh, error) {
	r := &objReader{current: -1}
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "v":
			vertex, err := parseVertex(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			r.positions = append(r.positions, vertex)
		case "vn":
			normal, err := parseVertex(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			r.normals = append(r.normals, normal)
		case "vt":
			texCoord, err := parseTextureCoordinate(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			r.texCoords = append(r.texCoords, texCoord)
		case "o", "g":
			objName := name
			if len(parts) > 1 {
				objName = strings.Join(parts[1:], " ")
			}
			r.startObject(objName)
		case "f":
			face, err := parseFace(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if r.current < 0 {
				r.startObject(name)
			}
			if err := r.addFace(face); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		default:
			// mtllib, usemtl, s and the rest carry nothing a mesh uses.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	meshes := r.meshes[:0]
	for _, m := range r.meshes {
		if len(m.Vertices) > 0 {
			meshes = append(meshes, m)
		}
	}
	return meshes, nil
}

// resolve turns a parsed OBJ index (1-based, or negative relative to the end)
// into a slice index.
func resolve(idx int32, count int) (int, bool) {
	switch {
	case idx > 0 && int(idx) <= count:
		return int(idx) - 1, true
	case idx < 0 && count+int(idx) >= 0:
		return count + int(idx), true
	}
	return 0, false
}

func (r *objReader) addFace(face []FaceVertex) error {
	mesh := &r.meshes[r.current]
	for _, fv := range face {
		var data renderer.VertexData

		pi, ok := resolve(fv.VertexIdx, len(r.positions))
		if !ok {
			return fmt.Errorf("vertex index %d out of range", fv.VertexIdx)
		}
		data.Position = r.positions[pi]

		if fv.NormalIdx != 0 {
			ni, ok := resolve(fv.NormalIdx, len(r.normals))
			if !ok {
				return fmt.Errorf("normal index %d out of range", fv.NormalIdx)
			}
			if n := r.normals[ni]; n.Len() > 0 {
				data.Normal = n.Normalize()
			}
		}
		if fv.TexCoordIdx != 0 {
			ti, ok := resolve(fv.TexCoordIdx, len(r.texCoords))
			if !ok {
				return fmt.Errorf("texture coordinate index %d out of range", fv.TexCoordIdx)
			}
			data.TexCoords = r.texCoords[ti]
		}
		mesh.Vertices = append(mesh.Vertices, data)
	}
	return nil
}

func parseVertex(parts []string) (mgl32.Vec3, error) {
	var vertex mgl32.Vec3
	if len(parts) < 3 {
		return vertex, fmt.Errorf("vertex needs 3 components, got %d", len(parts))
	}
	for i := 0; i < 3; i++ {
		val, err := strconv.ParseFloat(parts[i], 32)
		if err != nil {
			return vertex, fmt.Errorf("invalid vertex value %v: %w", parts[i], err)
		}
		vertex[i] = float32(val)
	}
	return vertex, nil
}

// FaceVertex holds the raw OBJ indices of one face corner. A zero index means
// the attribute is absent.
type FaceVertex struct {
	VertexIdx   int32
	TexCoordIdx int32
	NormalIdx   int32
}

func parseIndex(s string) (int32, error) {
	if s == "" {
		return 0, nil
	}
	idx, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if idx == 0 {
		return 0, fmt.Errorf("index 0 is not valid")
	}
	return int32(idx), nil
}

// parseFace reads a polygon and fan-triangulates it from its first corner.
func parseFace(parts []string) ([]FaceVertex, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %d", len(parts))
	}

	face := make([]FaceVertex, 0, len(parts))
	for _, part := range parts {
		vals := strings.Split(part, "/")

		vertexIdx, err := parseIndex(vals[0])
		if err != nil || vertexIdx == 0 {
			return nil, fmt.Errorf("invalid vertex index %q", vals[0])
		}
		fv := FaceVertex{VertexIdx: vertexIdx}

		if len(vals) > 1 {
			if fv.TexCoordIdx, err = parseIndex(vals[1]); err != nil {
				return nil, fmt.Errorf("invalid texture coordinate index %q: %w", vals[1], err)
			}
		}
		if len(vals) > 2 {
			if fv.NormalIdx, err = parseIndex(vals[2]); err != nil {
				return nil, fmt.Errorf("invalid normal index %q: %w", vals[2], err)
			}
		}
		face = append(face, fv)
	}

	if len(face) == 3 {
		return face, nil
	}
	triangulated := make([]FaceVertex, 0, 3*(len(face)-2))
	for i := 1; i < len(face)-1; i++ {
		triangulated = append(triangulated, face[0], face[i], face[i+1])
	}
	return triangulated, nil
}

// for 2D textures; a third coordinate is ignored
func parseTextureCoordinate(parts []string) (mgl32.Vec2, error) {
	var texCoord mgl32.Vec2
	if len(parts) < 2 {
		return texCoord, fmt.Errorf("texture coordinate needs 2 components, got %d", len(parts))
	}
	for i := 0; i < 2; i++ {
		val, err := strconv.ParseFloat(parts[i], 32)
		if err != nil {
			return texCoord, fmt.Errorf("invalid texture coordinate value %v: %w", parts[i], err)
		}
		texCoord[i] = float32(val)
	}
	return texCoord, nil
}
