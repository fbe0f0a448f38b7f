package model

// User keeps per-user state that is not a project: currently only the
// reference to the most recently selected project. The reference is not
// an ownership relation; readers must tolerate it dangling.
type User struct {
	Username         string `gorm:"primaryKey"`
	CurrentProjectID *string
}
