// Package ebitenrender implements cinder.Renderer on top of
// hajimehoshi/ebiten/v2, keeping every ebiten type behind this package
// so the root cinder package never imports a rendering library
// directly.
package ebitenrender

import (
	"github.com/cindervm/cinder"
	"github.com/hajimehoshi/ebiten/v2"
)

// toEbitenBlend maps a cinder.BlendMode onto the ebiten.Blend factor
// pairs it needs, built from the same BlendFactor/BlendOperation
// vocabulary as the two extra blend modes cinder adds (BlendLayer,
// BlendBelow).
func toEbitenBlend(b cinder.BlendMode) ebiten.Blend {
	switch b {
	case cinder.BlendNormal:
		return ebiten.BlendSourceOver
	case cinder.BlendAdd:
		return ebiten.BlendLighter
	case cinder.BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case cinder.BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case cinder.BlendErase:
		return ebiten.BlendDestinationOut
	case cinder.BlendLayer:
		// Clip destination to source alpha: keep only where the mask
		// painted, same factor shape ebiten uses for clip-style blends.
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorZero,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case cinder.BlendBelow:
		return ebiten.BlendDestinationOver
	case cinder.BlendNone:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorZero,
			BlendFactorDestinationAlpha: ebiten.BlendFactorZero,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}
