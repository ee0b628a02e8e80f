package tower

// CollapseChecker решает, упадёт ли башня при вытаскивании блока.
// Состояния не хранит, кроме источника случайности.
type CollapseChecker struct {
	rng RandomSource
}

// NewCollapseChecker создаёт проверку с указанным источником случайности
func NewCollapseChecker(rng RandomSource) *CollapseChecker {
	return &CollapseChecker{rng: rng}
}

// Check выбирает число в [1, stability] и сообщает об обрушении,
// если оно не больше трения. При низкой стабильности диапазон сужается
// и обрушение вероятнее.
func (c *CollapseChecker) Check(stability, friction int) bool {
	if friction <= 0 {
		return false
	}
	if stability < 1 {
		stability = 1
	}
	draw := 1 + c.rng.Intn(stability)
	return draw <= friction
}
