// internal/adapters/discord/policy.go
// Privilege check based on configured admin roles or the Administrator permission.

package discord

import "github.com/bwmarrin/discordgo"

type Policy struct {
	adminRoles map[string]struct{}
}

func NewPolicy(adminRoleIDs []string) *Policy {
	p := &Policy{adminRoles: make(map[string]struct{}, len(adminRoleIDs))}
	for _, id := range adminRoleIDs {
		if id != "" {
			p.adminRoles[id] = struct{}{}
		}
	}
	return p
}

// IsPrivileged returns true if the member has Administrator or one of the admin roles.
func (p *Policy) IsPrivileged(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	for _, r := range i.Member.Roles {
		if _, ok := p.adminRoles[r]; ok {
			return true
		}
	}
	return false
}
