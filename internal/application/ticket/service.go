package ticket

import (
	"context"

	"ticketd/internal/application/ticket/dto"
	"ticketd/internal/application/ticket/usecases"
	"ticketd/internal/domain/event"
	domainTicket "ticketd/internal/domain/ticket"
	"ticketd/internal/shared/logger"
)

// Dependencies are the collaborators of the ticket lifecycle.
type Dependencies struct {
	TicketRepo      domainTicket.TicketRepository
	OrderRepo       usecases.OrderRepository
	CustomerRepo    usecases.CustomerRepository
	EventResolver   event.Resolver
	TxManager       usecases.TransactionManager
	Notifier        usecases.Notifier
	Encoder         usecases.CodeImageEncoder
	CodeMaxAttempts int
}

// ServiceDDD is the entry point to ticket issuance, status changes, lookups, transfers
// and code rendering.
type ServiceDDD struct {
	logger logger.Interface

	issueTickets   *usecases.IssueTicketsUseCase
	updateStatus   *usecases.UpdateTicketStatusUseCase
	deleteByOrder  *usecases.DeleteTicketsByOrderUseCase
	getTicket      *usecases.GetTicketUseCase
	listTickets    *usecases.ListTicketsUseCase
	transferTicket *usecases.TransferTicketUseCase
	generateQRCode *usecases.GenerateQRCodeUseCase
}

func NewServiceDDD(deps Dependencies, logger logger.Interface) *ServiceDDD {
	codeGenerator := domainTicket.NewUUIDCodeGenerator(deps.TicketRepo, deps.CodeMaxAttempts)

	return &ServiceDDD{
		logger: logger,

		issueTickets:   usecases.NewIssueTicketsUseCase(deps.OrderRepo, deps.TicketRepo, codeGenerator, deps.TxManager, deps.CodeMaxAttempts, logger),
		updateStatus:   usecases.NewUpdateTicketStatusUseCase(deps.TicketRepo, logger),
		deleteByOrder:  usecases.NewDeleteTicketsByOrderUseCase(deps.TicketRepo, logger),
		getTicket:      usecases.NewGetTicketUseCase(deps.TicketRepo, logger),
		listTickets:    usecases.NewListTicketsUseCase(deps.TicketRepo, logger),
		transferTicket: usecases.NewTransferTicketUseCase(deps.TicketRepo, deps.CustomerRepo, deps.EventResolver, codeGenerator, deps.Notifier, deps.CodeMaxAttempts, logger),
		generateQRCode: usecases.NewGenerateQRCodeUseCase(deps.TicketRepo, deps.Encoder, logger),
	}
}

func (s *ServiceDDD) IssueTickets(ctx context.Context, orderID uint) (*usecases.IssueTicketsResult, error) {
	return s.issueTickets.Execute(ctx, usecases.IssueTicketsCommand{OrderID: orderID})
}

func (s *ServiceDDD) UpdateStatus(ctx context.Context, ticketKey, status string) (*usecases.UpdateTicketStatusResult, error) {
	return s.updateStatus.Execute(ctx, usecases.UpdateTicketStatusCommand{TicketKey: ticketKey, Status: status})
}

func (s *ServiceDDD) DeleteByOrder(ctx context.Context, orderID uint) (*usecases.DeleteTicketsByOrderResult, error) {
	return s.deleteByOrder.Execute(ctx, usecases.DeleteTicketsByOrderCommand{OrderID: orderID})
}

func (s *ServiceDDD) GetByKey(ctx context.Context, ticketKey string) (*dto.TicketDTO, error) {
	return s.getTicket.Execute(ctx, usecases.GetTicketQuery{TicketKey: ticketKey})
}

func (s *ServiceDDD) GetByProductAndCode(ctx context.Context, productID uint, code string) (*dto.TicketDTO, error) {
	return s.getTicket.Execute(ctx, usecases.GetTicketQuery{ProductID: productID, UniqueCode: code})
}

func (s *ServiceDDD) List(ctx context.Context, query usecases.ListTicketsQuery) ([]*dto.TicketDTO, error) {
	return s.listTickets.Execute(ctx, query)
}

func (s *ServiceDDD) Transfer(ctx context.Context, cmd usecases.TransferTicketCommand) (*usecases.TransferTicketResult, error) {
	return s.transferTicket.Execute(ctx, cmd)
}

func (s *ServiceDDD) GenerateQRCode(ctx context.Context, ticketKey string) (*usecases.GenerateQRCodeResult, error) {
	return s.generateQRCode.Execute(ctx, usecases.GenerateQRCodeQuery{TicketKey: ticketKey})
}
