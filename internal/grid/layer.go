package grid

// LayerBand представляет именованную полосу слоёв.
// Полоса — свойство базового номера слоя, а не клетки.
type LayerBand string

const (
	BandSur LayerBand = "SUR" // Поверхность: 300..305
	BandUdn LayerBand = "UDN" // Скрытая/инвертированная полоса: 294..299
	BandSub LayerBand = "SUB" // Подземная полоса: <=293
)

// Границы полос слоёв.
const (
	SurMinLayer = 300
	SurMaxLayer = 305
	UdnMinLayer = 294
	UdnMaxLayer = 299
	SubMaxLayer = 293
)

// GetLayerBand возвращает полосу для номера слоя.
// Полосы разбивают диапазон (-inf, 305] без пересечений;
// для слоя > 305 возвращается LayerBandError.
func GetLayerBand(layer int) (LayerBand, error) {
	switch {
	case layer >= SurMinLayer && layer <= SurMaxLayer:
		return BandSur, nil
	case layer >= UdnMinLayer && layer <= UdnMaxLayer:
		return BandUdn, nil
	case layer <= SubMaxLayer:
		return BandSub, nil
	default:
		return "", &LayerBandError{Layer: layer}
	}
}
