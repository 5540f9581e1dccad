package prompts

import _ "embed"

// Embedded prompt files

//go:embed audit_system.txt
var auditSystem string

//go:embed audit_user.txt
var auditUser string

func AuditSystem() string { return auditSystem }
func AuditUser() string   { return auditUser }
