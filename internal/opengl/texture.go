package opengl

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"

	"scene-viewer/scene"
)

var ErrBindlessUnsupported = errors.New("GL_ARB_bindless_texture is not supported")

// UploadTexture uploads a scene.Texture to the GPU and sets its GLID field.
// The OpenGL context must be current on the calling goroutine.
func UploadTexture(tex *scene.Texture) error {
	if tex == nil {
		return fmt.Errorf("nil texture")
	}
	if len(tex.Pixels) == 0 {
		return fmt.Errorf("texture %q has no pixel data", tex.Name)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(tex.Width),
		int32(tex.Height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		unsafe.Pointer(&tex.Pixels[0]),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	tex.GLID = id
	return nil
}

// MakeResident uploads tex if needed and makes a bindless handle for it
// resident, storing it in tex.Handle.
func MakeResident(tex *scene.Texture) error {
	if !BindlessSupported() {
		return ErrBindlessUnsupported
	}
	if tex.GLID == 0 {
		if err := UploadTexture(tex); err != nil {
			return err
		}
	}
	if tex.Handle != 0 {
		return nil
	}

	handle := gl.GetTextureHandleARB(tex.GLID)
	if handle == 0 {
		return fmt.Errorf("texture %q: no bindless handle", tex.Name)
	}
	gl.MakeTextureHandleResidentARB(handle)
	tex.Handle = handle
	return nil
}

// DeleteTexture frees a previously uploaded GPU texture and zeroes its ids.
func DeleteTexture(tex *scene.Texture) {
	if tex == nil || tex.GLID == 0 {
		return
	}
	if tex.Handle != 0 {
		gl.MakeTextureHandleNonResidentARB(tex.Handle)
		tex.Handle = 0
	}
	gl.DeleteTextures(1, &tex.GLID)
	tex.GLID = 0
}

var bindlessSupported *bool

// BindlessSupported reports whether the current context exposes
// GL_ARB_bindless_texture. The answer is cached after the first call.
func BindlessSupported() bool {
	if bindlessSupported != nil {
		return *bindlessSupported
	}

	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	found := false
	for i := int32(0); i < n; i++ {
		if gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i))) == "GL_ARB_bindless_texture" {
			found = true
			break
		}
	}
	if !found {
		slog.Warn("bindless textures unavailable, materials render untextured")
	}
	bindlessSupported = &found
	return found
}
