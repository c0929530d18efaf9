package services

import "crypto/subtle"

// Role — уровень доступа судейской панели.
type Role string

const (
	// RoleJudge фиксирует результаты и управляет игровым таймером.
	RoleJudge Role = "judge"
	// RoleMaster дополнительно управляет общим таймером события.
	RoleMaster Role = "master"
)

// AuthService — резолвер роли по PIN-коду. Два статических секрета,
// сравнение на равенство строк; криптографических свойств у этой схемы
// нет и не заявлено.
type AuthService struct {
	judgePIN  string
	masterPIN string
}

func NewAuthService(judgePIN, masterPIN string) *AuthService {
	return &AuthService{judgePIN: judgePIN, masterPIN: masterPIN}
}

// ResolveRole возвращает роль для введённого PIN либо ErrInvalidPIN.
func (s *AuthService) ResolveRole(pin string) (Role, error) {
	if subtle.ConstantTimeCompare([]byte(pin), []byte(s.masterPIN)) == 1 {
		return RoleMaster, nil
	}
	if subtle.ConstantTimeCompare([]byte(pin), []byte(s.judgePIN)) == 1 {
		return RoleJudge, nil
	}
	return "", ErrInvalidPIN
}
