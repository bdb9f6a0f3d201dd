package domain

// Role роль инициатора перехода статуса
type Role string

const (
	// RoleRequester клиент, владелец заявки
	RoleRequester Role = "requester"
	// RoleProvider мастер студии
	RoleProvider Role = "provider"
	// RoleLedger платежный ledger (переход по подтвержденному платежу)
	RoleLedger Role = "ledger"
)

// transitionKey пара (из какого статуса, в какой)
type transitionKey struct {
	From BookingStatus
	To   BookingStatus
}

// transitionTable единая таблица допустимых переходов статусов
// Любая пара (from, to), отсутствующая в таблице - нелегальный переход;
// проверки статусов не дублируются по вызывающим местам
var transitionTable = map[transitionKey][]Role{
	// Рассмотрение заявки мастером
	{StatusPending, StatusApproved}:            {RoleProvider},
	{StatusInfoRequested, StatusApproved}:      {RoleProvider},
	{StatusPending, StatusInfoRequested}:       {RoleProvider},
	{StatusInfoRequested, StatusInfoRequested}: {RoleProvider},
	{StatusPending, StatusDeclined}:            {RoleProvider},
	{StatusInfoRequested, StatusDeclined}:      {RoleProvider},

	// Клиент выбирает слот: переход сопровождается резервированием,
	// неудачное резервирование не продвигает статус
	{StatusApproved, StatusAwaitingDeposit}: {RoleRequester},

	// Подтверждение депозита приходит только из платежного ledger
	{StatusAwaitingDeposit, StatusConfirmed}: {RoleLedger},

	{StatusConfirmed, StatusCompleted}: {RoleProvider},
	// Единственный обратный переход - reopen
	{StatusCompleted, StatusConfirmed}: {RoleProvider},

	// Отмена доступна из любого нетерминального статуса
	{StatusPending, StatusCancelled}:         {RoleRequester, RoleProvider},
	{StatusInfoRequested, StatusCancelled}:   {RoleRequester, RoleProvider},
	{StatusApproved, StatusCancelled}:        {RoleRequester, RoleProvider},
	{StatusAwaitingDeposit, StatusCancelled}: {RoleRequester, RoleProvider},
	{StatusConfirmed, StatusCancelled}:       {RoleRequester, RoleProvider},
}

// CanTransition проверяет, допустим ли переход from -> to для роли role
// Проверка владения заявкой (requester может менять только свою)
// выполняется на уровне usecase
func CanTransition(from, to BookingStatus, role Role) bool {
	roles, ok := transitionTable[transitionKey{From: from, To: to}]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// TransitionExists проверяет, есть ли переход from -> to хоть для какой-то роли
func TransitionExists(from, to BookingStatus) bool {
	_, ok := transitionTable[transitionKey{From: from, To: to}]
	return ok
}

// AllStatuses все статусы заявки (для тестов полноты таблицы переходов)
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusInfoRequested,
	StatusApproved,
	StatusAwaitingDeposit,
	StatusConfirmed,
	StatusCompleted,
	StatusDeclined,
	StatusCancelled,
}

// AllRoles все роли инициаторов переходов
var AllRoles = []Role{RoleRequester, RoleProvider, RoleLedger}
