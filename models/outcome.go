package models

import (
	"encoding/json"
	"fmt"
)

// outcomeDraw — значение поля winnerId для ничьей в сохранённом виде.
const outcomeDraw = "draw"

// Outcome — исход матча: победа конкретной команды либо ничья.
// Тип закрыт: нулевое значение означает "исход не выбран" и не проходит
// валидацию. В JSON сериализуется в исходное поле winnerId
// (идентификатор команды или литерал "draw").
type Outcome struct {
	winnerID string
	draw     bool
}

func Win(teamID string) Outcome {
	return Outcome{winnerID: teamID}
}

func Draw() Outcome {
	return Outcome{draw: true}
}

// ParseOutcome разбирает значение winnerId из запроса или снапшота.
// Пустая строка даёт нулевой Outcome.
func ParseOutcome(raw string) Outcome {
	if raw == outcomeDraw {
		return Draw()
	}
	if raw == "" {
		return Outcome{}
	}
	return Win(raw)
}

func (o Outcome) IsDraw() bool {
	return o.draw
}

// Winner возвращает ID победителя; ok == false для ничьей и нулевого значения.
func (o Outcome) Winner() (string, bool) {
	if o.draw || o.winnerID == "" {
		return "", false
	}
	return o.winnerID, true
}

func (o Outcome) IsZero() bool {
	return !o.draw && o.winnerID == ""
}

func (o Outcome) String() string {
	if o.draw {
		return outcomeDraw
	}
	return o.winnerID
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("outcome must be a string: %w", err)
	}
	*o = ParseOutcome(raw)
	return nil
}
