package models

// ScoreTable — таблица начислений для режима versus. Это конфигурация,
// а не логика: значения можно переопределить через окружение, не трогая
// движок правил.
type ScoreTable struct {
	Win  int
	Draw int
	Loss int
}

// DefaultScoreTable: победа 3, ничья 1, поражение 0.
func DefaultScoreTable() ScoreTable {
	return ScoreTable{Win: 3, Draw: 1, Loss: 0}
}

// Award возвращает очки, начисляемые каждому затронутому участнику:
// при ничьей — Draw обеим командам, иначе Win победителю (проигравший
// не получает записи изменения очков, Loss существует только как
// настройка и по умолчанию равен нулю).
func (t ScoreTable) Award(o Outcome) int {
	if o.IsDraw() {
		return t.Draw
	}
	return t.Win
}
