package billing

type Situation string

const (
	SituationPayed   Situation = "PAYED"
	SituationUnpayed Situation = "UNPAYED"
)

func (s Situation) Valid() bool {
	return s == SituationPayed || s == SituationUnpayed
}
