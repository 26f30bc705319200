package di

import (
	"go.uber.org/zap"

	cmdbus "github.com/ndlib/mellon-blueprints/application/commands/bus"
	"github.com/ndlib/mellon-blueprints/application/ports"
	querybus "github.com/ndlib/mellon-blueprints/application/queries/bus"
	"github.com/ndlib/mellon-blueprints/application/services/rotation"
	"github.com/ndlib/mellon-blueprints/infrastructure/config"
	"github.com/ndlib/mellon-blueprints/pkg/auth"
	"github.com/ndlib/mellon-blueprints/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *zap.Logger
	ItemRepo         ports.ItemRepository
	WebsiteRepo      ports.WebsiteRepository
	FileGroupRepo    ports.FileGroupRepository
	SupplementalRepo ports.SupplementalDataRepository
	PortfolioRepo    ports.PortfolioRepository
	EventPublisher   ports.EventPublisher
	Metrics          *observability.Metrics
	Tracer           *observability.Tracer
	JWTValidator     *auth.JWTValidator
	CommandBus       *cmdbus.CommandBus
	QueryBus         *querybus.QueryBus
	Rotator          *rotation.Rotator
}
