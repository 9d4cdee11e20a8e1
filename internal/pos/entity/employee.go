package entity

import "time"

// EmployeeRole 员工角色
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleWaiter  = "waiter"
	RoleChef    = "chef"
)

// Employee 员工
type Employee struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Role      string    `json:"role" gorm:"size:20;not null;default:waiter"`
	FirstName string    `json:"fname" gorm:"column:fname;size:50;not null"`
	LastName  string    `json:"lname" gorm:"column:lname;size:50"`
	Email     string    `json:"email" gorm:"size:100;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Employee) TableName() string {
	return "employee"
}

// ValidRole 角色是否合法
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleWaiter, RoleChef:
		return true
	}
	return false
}
