package model

// Window is a working-hour range [StartHour:00, EndHour:00) on a single day.
type Window struct {
	StartHour int
	EndHour   int
}

// Valid reports whether the window is non-empty and within a single day.
func (w Window) Valid() bool {
	return w.StartHour >= 0 && w.EndHour <= 24 && w.StartHour < w.EndHour
}

// Minutes returns the window length in minutes.
func (w Window) Minutes() int {
	if !w.Valid() {
		return 0
	}
	return (w.EndHour - w.StartHour) * 60
}

type Service struct {
	ID          string `json:"id" bson:"_id" validate:"required,max=64"`
	Name        string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	DurationMin int    `json:"duration_min" bson:"duration_min" validate:"required,min=1,max=1440"`
}

type Practitioner struct {
	ID        string `json:"id" bson:"_id" validate:"required,max=64"`
	Name      string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	StartHour int    `json:"start_hour" bson:"start_hour" validate:"min=0,max=23"`
	EndHour   int    `json:"end_hour" bson:"end_hour" validate:"min=1,max=24,gtfield=StartHour"`
	BranchID  string `json:"branch_id,omitempty" bson:"branch_id,omitempty" validate:"omitempty,max=64"`
}

func (p *Practitioner) Window() Window {
	return Window{StartHour: p.StartHour, EndHour: p.EndHour}
}

type Branch struct {
	ID        string `json:"id" bson:"_id" validate:"required,max=64"`
	Name      string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	StartHour int    `json:"start_hour" bson:"start_hour" validate:"min=0,max=23"`
	EndHour   int    `json:"end_hour" bson:"end_hour" validate:"min=1,max=24,gtfield=StartHour"`
}

func (b *Branch) Window() Window {
	return Window{StartHour: b.StartHour, EndHour: b.EndHour}
}
