package models

// GameMode определяет, как судьи начисляют очки в дисциплине.
type GameMode string

const (
	// GameModeVersus — матч двух команд с победителем или ничьей.
	GameModeVersus GameMode = "versus"
	// GameModeBatch — одновременное начисление очков трём командам
	// (режим "Código Secreto").
	GameModeBatch GameMode = "batch"
)

// Game — статичные справочные данные, жизненного цикла нет.
type Game struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Mode GameMode `json:"mode"`
}

// DefaultGames возвращает список дисциплин события.
func DefaultGames() []Game {
	return []Game{
		{ID: "1", Name: "Código Secreto", Mode: GameModeBatch},
		{ID: "2", Name: "Fútbol 5", Mode: GameModeVersus},
		{ID: "3", Name: "Voley Mixto", Mode: GameModeVersus},
		{ID: "4", Name: "Carrera 100m", Mode: GameModeVersus},
		{ID: "5", Name: "Tiro al Blanco", Mode: GameModeVersus},
		{ID: "6", Name: "Concurso de TikTok", Mode: GameModeVersus},
	}
}
