package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Notification channels
	ChannelEmail = "email"
	ChannelRedis = "redis"
	ChannelAMQP  = "amqp"

	// Database table names
	TableTickets       = "tickets"
	TableOrders        = "orders"
	TableOrderProducts = "order_products"
	TableCustomers     = "customers"
	TableEvents        = "events"
	TableProducts      = "products"
)
