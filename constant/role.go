package constant

type Role string

const (
	RoleVictim      Role = "victim"
	RoleVolunteer   Role = "volunteer"
	RoleCoordinator Role = "coordinator"
	RoleNGO         Role = "ngo"
)

func (r Role) Valid() bool {
	switch r {
	case RoleVictim, RoleVolunteer, RoleCoordinator, RoleNGO:
		return true
	}
	return false
}
