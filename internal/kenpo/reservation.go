package kenpo

// ResortReservation is the payload shape of a lodging reservation.
type ResortReservation struct {
	ReservationURL string `json:"url"`
	Service        string `json:"service"`
	FromDate       string `json:"from_date"`
	Nights         string `json:"nights"`
	Headcount      string `json:"headcount"`
	Name           string `json:"name"`
	Kana           string `json:"kana"`
	BirthYear      string `json:"birth_year"`
	BirthMonth     string `json:"birth_month"`
	BirthDay       string `json:"birth_day"`
	PostalCode     string `json:"postal_code"`
	State          string `json:"state"`
	Address        string `json:"address"`
	Tel            string `json:"tel"`
	EmergencyTel   string `json:"emergency_tel"`
	JoinYear       string `json:"join_year"`
	Relation       string `json:"relation"`
}

// KaikanReservation is the payload shape of a facility-use reservation.
type KaikanReservation struct {
	ReservationURL string `json:"url"`
	Service        string `json:"service"`
	UseDate        string `json:"use_date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Purpose        string `json:"purpose"`
	Headcount      string `json:"headcount"`
	Name           string `json:"name"`
	Kana           string `json:"kana"`
	BirthYear      string `json:"birth_year"`
	BirthMonth     string `json:"birth_month"`
	BirthDay       string `json:"birth_day"`
	PostalCode     string `json:"postal_code"`
	State          string `json:"state"`
	Address        string `json:"address"`
	Tel            string `json:"tel"`
	JoinYear       string `json:"join_year"`
}

// BuildResortReservation projects accumulated session fields into the
// lodging payload. Absent fields stay empty; completeness is the step
// engine's responsibility, not the builder's.
func BuildResortReservation(fields map[string]string) ResortReservation {
	return ResortReservation{
		ReservationURL: fields["url"],
		Service:        fields["service"],
		FromDate:       fields["from_date"],
		Nights:         fields["nights"],
		Headcount:      fields["headcount"],
		Name:           fields["name"],
		Kana:           fields["kana"],
		BirthYear:      fields["birth_year"],
		BirthMonth:     fields["birth_month"],
		BirthDay:       fields["birth_day"],
		PostalCode:     fields["postal_code"],
		State:          fields["state"],
		Address:        fields["address"],
		Tel:            fields["tel"],
		EmergencyTel:   fields["emergency_tel"],
		JoinYear:       fields["join_year"],
		Relation:       fields["relation"],
	}
}

// BuildKaikanReservation projects accumulated session fields into the
// facility-use payload.
func BuildKaikanReservation(fields map[string]string) KaikanReservation {
	return KaikanReservation{
		ReservationURL: fields["url"],
		Service:        fields["service"],
		UseDate:        fields["use_date"],
		StartTime:      fields["start_time"],
		EndTime:        fields["end_time"],
		Purpose:        fields["purpose"],
		Headcount:      fields["headcount"],
		Name:           fields["name"],
		Kana:           fields["kana"],
		BirthYear:      fields["birth_year"],
		BirthMonth:     fields["birth_month"],
		BirthDay:       fields["birth_day"],
		PostalCode:     fields["postal_code"],
		State:          fields["state"],
		Address:        fields["address"],
		Tel:            fields["tel"],
		JoinYear:       fields["join_year"],
	}
}
