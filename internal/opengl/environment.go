package opengl

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"

	"scene-viewer/scene"
)

// Environment holds the image based lighting maps as resident bindless
// textures: the diffuse irradiance map, the prefiltered specular map with
// one mip level per roughness step, and the split-sum GGX integration map.
// Any of them may be nil.
type Environment struct {
	Irradiance  *scene.Texture
	Prefiltered *scene.Texture
	Integration *scene.Texture
	// Levels is the number of prefiltered mip levels.
	Levels int
}

// LoadEnvironment loads and makes resident the maps whose paths are not
// empty. It returns ErrBindlessUnsupported when the context cannot sample
// bindless handles.
func LoadEnvironment(irradiance string, prefiltered []string, integration string) (*Environment, error) {
	if !BindlessSupported() {
		return nil, ErrBindlessUnsupported
	}

	env := &Environment{}
	var err error
	if irradiance != "" {
		if env.Irradiance, err = loadResident(irradiance); err != nil {
			env.Delete()
			return nil, fmt.Errorf("irradiance map: %w", err)
		}
	}
	if integration != "" {
		if env.Integration, err = loadResident(integration); err != nil {
			env.Delete()
			return nil, fmt.Errorf("integration map: %w", err)
		}
	}
	if len(prefiltered) > 0 {
		levels := make([]*scene.Texture, 0, len(prefiltered))
		for _, path := range prefiltered {
			tex, err := scene.LoadTexture(path)
			if err != nil {
				env.Delete()
				return nil, fmt.Errorf("prefiltered map: %w", err)
			}
			levels = append(levels, tex)
		}
		if env.Prefiltered, err = UploadMipChain("prefiltered", levels); err != nil {
			env.Delete()
			return nil, err
		}
		if err := MakeResident(env.Prefiltered); err != nil {
			env.Delete()
			return nil, err
		}
		env.Levels = len(levels)
	}
	return env, nil
}

func loadResident(path string) (*scene.Texture, error) {
	tex, err := scene.LoadTexture(path)
	if err != nil {
		return nil, err
	}
	if err := MakeResident(tex); err != nil {
		return nil, err
	}
	return tex, nil
}

// UploadMipChain uploads levels as the explicit mip chain of one texture,
// level i taken from levels[i]. Each level must be no larger than the one
// before it.
func UploadMipChain(name string, levels []*scene.Texture) (*scene.Texture, error) {
	if len(levels) == 0 {
		return nil, errors.New("empty mip chain")
	}
	for i, lvl := range levels {
		if len(lvl.Pixels) == 0 {
			return nil, fmt.Errorf("mip level %d (%s) has no pixel data", i, lvl.Name)
		}
		if i > 0 && (lvl.Width > levels[i-1].Width || lvl.Height > levels[i-1].Height) {
			return nil, fmt.Errorf("mip level %d (%s) is larger than level %d", i, lvl.Name, i-1)
		}
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_BASE_LEVEL, 0)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, int32(len(levels)-1))

	for i, lvl := range levels {
		gl.TexImage2D(gl.TEXTURE_2D, int32(i), gl.RGBA8,
			int32(lvl.Width), int32(lvl.Height), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&lvl.Pixels[0]))
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	base := levels[0]
	return &scene.Texture{
		Name:   name,
		Width:  base.Width,
		Height: base.Height,
		GLID:   id,
	}, nil
}

// Upload writes the resident handles and the prefiltered level count.
func (e *Environment) Upload(p *Program) {
	if e.Irradiance != nil {
		p.UploadHandle("tex_irradianceMap", e.Irradiance.Handle)
	}
	if e.Prefiltered != nil {
		p.UploadHandle("tex_environmentMap", e.Prefiltered.Handle)
		p.UploadInt("envMap_maxLevel", int32(e.Levels))
	}
	if e.Integration != nil {
		p.UploadHandle("tex_integrationMap", e.Integration.Handle)
	}
}

func (e *Environment) Delete() {
	DeleteTexture(e.Irradiance)
	DeleteTexture(e.Prefiltered)
	DeleteTexture(e.Integration)
}
