package auth

import "sort"

// AuthorityAll is the wildcard authority granted to superusers. It
// satisfies every downstream authority check.
const AuthorityAll = "all:all"

// ResolveAuthorities turns a loaded principal into the capability set
// presented to downstream authorization checks. A superuser short-circuits
// to the single wildcard authority and the role is ignored entirely;
// otherwise the set is the permission names of the assigned role, empty
// when no role is assigned.
//
// The result reflects the role at the moment the principal was loaded, not
// at token issuance: role changes take effect on the next request.
func ResolveAuthorities(principal *Principal) []string {
	if principal == nil {
		return nil
	}

	if principal.Superuser {
		return []string{AuthorityAll}
	}

	if principal.Role == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(principal.Role.Permissions))
	authorities := make([]string, 0, len(principal.Role.Permissions))

	for _, permission := range principal.Role.Permissions {
		if permission == nil || permission.Name == "" {
			continue
		}
		if _, ok := seen[permission.Name]; ok {
			continue
		}
		seen[permission.Name] = struct{}{}
		authorities = append(authorities, permission.Name)
	}

	sort.Strings(authorities)

	return authorities
}

// HasAuthority reports whether the resolved set grants the named
// capability, honoring the superuser wildcard
func HasAuthority(authorities []string, name string) bool {
	for _, authority := range authorities {
		if authority == AuthorityAll || authority == name {
			return true
		}
	}
	return false
}
