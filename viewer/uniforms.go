package viewer

import (
	"scene-viewer/math"
	"scene-viewer/scene"
)

// UniformSink receives uniforms by name. *opengl.Program implements it.
type UniformSink interface {
	UploadMat4(name string, m math.Mat4)
	UploadFloat3(name string, v math.Vec3)
}

// Uniform names shared with res/shaders.
const (
	UniformModel            = "M"
	UniformModelNormal      = "MN"
	UniformModelView        = "MV"
	UniformModelViewNormal  = "MVN"
	UniformModelViewProj    = "MVP"
	UniformEye              = "p_eye"
	UniformLightPosition    = "p_light"
	UniformLightColor       = "light_color"
	UniformLightAttenuation = "light_attenuation"
)

// UploadUniforms writes the per-frame transforms and the eye position.
func UploadUniforms(sink UniformSink, u FrameUniforms) {
	sink.UploadMat4(UniformModelView, u.MV)
	sink.UploadMat4(UniformModelViewNormal, u.MVN)
	sink.UploadMat4(UniformModelViewProj, u.MVP)
	sink.UploadFloat3(UniformEye, u.Eye)
}

// UploadModel writes the model and model-normal matrices. They only change
// with Frame.SetModel, so the loop uploads them once per program.
func UploadModel(sink UniformSink, u FrameUniforms) {
	sink.UploadMat4(UniformModel, u.M)
	sink.UploadMat4(UniformModelNormal, u.MN)
}

func UploadLight(sink UniformSink, light scene.Light) {
	sink.UploadFloat3(UniformLightAttenuation, light.Attenuation)
	sink.UploadFloat3(UniformLightColor, light.Color)
	sink.UploadFloat3(UniformLightPosition, light.Position)
}
