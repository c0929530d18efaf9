package models

import "fmt"

// Team представляет команду на табло. Points изменяется только операциями
// BoardService; сама структура — чистые данные.
type Team struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

const defaultTeamCount = 15

// DefaultRoster возвращает стартовый список команд (Equipo A..O).
// Порядок в слайсе фиксирует порядок для разрешения ничьих в рейтинге.
func DefaultRoster() []*Team {
	roster := make([]*Team, 0, defaultTeamCount)
	for i := 0; i < defaultTeamCount; i++ {
		roster = append(roster, &Team{
			ID:   fmt.Sprintf("team-%d", i+1),
			Name: fmt.Sprintf("Equipo %c", rune('A'+i)),
		})
	}
	return roster
}
