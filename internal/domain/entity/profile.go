package entity

// Profile datos de contacto del usuario del portal asociado al inversionista.
type Profile struct {
	ID          string
	DisplayName string
	Email       string
}
