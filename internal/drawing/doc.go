// Package drawing is the vector drawing surface shared by shape
// characters, morph shapes, and AVM1/AVM2 scripted drawing APIs
// (beginFill/lineTo/curveTo and their Graphics-class equivalents). It
// owns path recording, flattening, and a small tessellation-result
// cache keyed by render scale.
package drawing
