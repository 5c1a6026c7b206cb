package app

import (
	"github.com/specialistvlad/synthtags/internal/registry"
	"github.com/specialistvlad/synthtags/modules/envstore"
	"github.com/specialistvlad/synthtags/modules/httpstore"
	"github.com/specialistvlad/synthtags/modules/mathops"
	"github.com/specialistvlad/synthtags/modules/socketiostore"
	"github.com/specialistvlad/synthtags/modules/sqlstore"
	"github.com/specialistvlad/synthtags/modules/yamlstore"
)

// coreModules is the definitive list of all modules that are compiled into
// the synthtags binary.
var coreModules = []registry.Module{
	&yamlstore.Module{},
	&sqlstore.Module{},
	&httpstore.Module{},
	&socketiostore.Module{},
	&envstore.Module{},
	&mathops.Module{},
}
