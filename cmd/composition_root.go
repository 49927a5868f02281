package cmd

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/jobs"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *zap.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *zap.Logger) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateCouriersCommandHandler() commands.CreateCouriersCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCouriersCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateOrdersCommandHandler() commands.CreateOrdersCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrdersCommandHandler(f)
}

func (c *CompositionRoot) CreateUpdateCourierCommandHandler() commands.UpdateCourierCommandHandler {
	return commands.NewUpdateCourierCommandHandler(c.uoWFactory())
}

func (c *CompositionRoot) CreateAssignOrdersCommandHandler() commands.AssignOrdersCommandHandler {
	return commands.NewAssignOrdersCommandHandler(c.uoWFactory(), nil)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.uoWFactory())
}

func (c *CompositionRoot) CreateGetCourierQueryHandler() queries.GetCourierQueryHandler {
	return queries.NewGetCourierQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderBacklogQueryHandler() queries.GetOrderBacklogQueryHandler {
	return queries.NewGetOrderBacklogQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateServer() (*httpin.Server, error) {
	return httpin.NewServer(httpin.Handlers{
		CreateCouriers: c.CreateCreateCouriersCommandHandler(),
		UpdateCourier:  c.CreateUpdateCourierCommandHandler(),
		GetCourier:     c.CreateGetCourierQueryHandler(),
		CreateOrders:   c.CreateCreateOrdersCommandHandler(),
		AssignOrders:   c.CreateAssignOrdersCommandHandler(),
		CompleteOrder:  c.CreateCompleteOrderCommandHandler(),
	})
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	report, err := jobs.NewBacklogReportJob(
		c.CreateGetOrderBacklogQueryHandler(),
		c.cfg.BacklogReportSchedule,
		c.logger,
	)
	if err != nil {
		return nil, err
	}

	manager := jobs.NewJobManager()
	manager.Register("backlog_report", report)
	return manager, nil
}

func (c *CompositionRoot) uoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
