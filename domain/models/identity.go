package models

// Identity ผู้เรียกที่ผ่านการ authenticate แล้ว
type Identity struct {
	Subject string
	Email   string
	Roles   []string
}

func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}
