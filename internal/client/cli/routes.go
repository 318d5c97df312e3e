package cli

import (
	"context"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
)

// route is one REPL command. Public routes skip the guards; the others
// require a session and, when roles is non-empty, one of those roles.
type route struct {
	name   string
	public bool
	roles  []models.Role
	run    func(a *App, ctx context.Context, args []string) error
}

var routes = []route{
	{name: "register", public: true, run: (*App).cmdRegister},
	{name: "login", public: true, run: (*App).cmdLogin},

	{name: "logout", run: (*App).cmdLogout},
	{name: "whoami", run: (*App).cmdWhoami},
	{name: "pets", run: (*App).cmdPets},
	{name: "pet", run: (*App).cmdPet},

	{name: "adopt", roles: []models.Role{models.RoleUser}, run: (*App).cmdAdopt},
	{name: "apps", roles: []models.Role{models.RoleUser}, run: (*App).cmdApps},

	{name: "addpet", roles: []models.Role{models.RoleAdmin}, run: (*App).cmdAddPet},
	{name: "updatepet", roles: []models.Role{models.RoleAdmin}, run: (*App).cmdUpdatePet},
	{name: "delpet", roles: []models.Role{models.RoleAdmin}, run: (*App).cmdDeletePet},
	{name: "allapps", roles: []models.Role{models.RoleAdmin}, run: (*App).cmdAllApps},
	{name: "setstatus", roles: []models.Role{models.RoleAdmin}, run: (*App).cmdSetStatus},
}

func findRoute(name string) (route, bool) {
	for _, r := range routes {
		if r.name == name {
			return r, true
		}
	}
	return route{}, false
}

func (a *App) exec(ctx context.Context, r route, args []string) error {
	return r.run(a, ctx, args)
}
