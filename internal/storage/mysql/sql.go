package mysql

// -----------------------------------------------------------------------------
// HOTELS & ROOMS
// -----------------------------------------------------------------------------

const getHotelSQL = `SELECT id, name, description FROM hotels WHERE id = ?`

const listHotelsSQL = `SELECT id, name, description FROM hotels ORDER BY id`

const updateHotelDescriptionSQL = `UPDATE hotels SET description = ? WHERE id = ?`

const getRoomSQL = `SELECT id, hotel_id, number, special_requests FROM rooms WHERE id = ?`

// Numeric room numbers sort as numbers, the rest after them.
const listRoomsSQL = `
SELECT id, hotel_id, number, special_requests
FROM rooms
WHERE hotel_id = ?
ORDER BY number REGEXP '^[0-9]+$' DESC, CAST(number AS UNSIGNED), number
`

const updateRoomTagsSQL = `UPDATE rooms SET special_requests = ? WHERE id = ?`

// -----------------------------------------------------------------------------
// RESERVATIONS
// -----------------------------------------------------------------------------

// room_number comes from the room row; reservations do not copy it.
const selectReservationSQL = `
SELECT
  r.id,
  r.hotel_id,
  r.room_id,
  COALESCE(rm.number, ''),
  r.user_email,
  r.guest_name,
  r.guest_phone,
  r.num_of_diners,
  r.date,
  r.status
FROM reservations r
LEFT JOIN rooms rm ON rm.id = r.room_id
`

const getReservationSQL = selectReservationSQL + `WHERE r.id = ?`

const listReservationsSQL = selectReservationSQL + `
WHERE r.hotel_id = ? AND r.date >= ? AND r.date < ?
ORDER BY r.date, r.id
`

// -----------------------------------------------------------------------------
// ORDERS
// -----------------------------------------------------------------------------

const insertOrderSQL = `
INSERT INTO orders
  (id, hotel_id, reservation_id, total, paid, note, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

const selectOrderSQL = `SELECT id, hotel_id, reservation_id, total, paid, note, created_at FROM orders `

const listOrdersByReservationSQL = selectOrderSQL + `WHERE reservation_id = ? ORDER BY created_at, id`

const listOrdersSQL = selectOrderSQL + `
WHERE hotel_id = ? AND created_at >= ? AND created_at < ?
ORDER BY created_at, id
`

// -----------------------------------------------------------------------------
// AUDIT LOGS & NOTIFICATIONS
// -----------------------------------------------------------------------------

const insertAuditLogSQL = `INSERT INTO audit_logs (id, subject, message, created_at) VALUES (?, ?, ?, ?)`

const listAuditLogsSQL = `
SELECT id, subject, message, created_at
FROM audit_logs
WHERE subject = ?
ORDER BY created_at, id
`

const insertNotificationSQL = `INSERT INTO notifications (id, hotel_id, message, created_at) VALUES (?, ?, ?, ?)`

const getNotificationSQL = `SELECT id, hotel_id, message, created_at FROM notifications WHERE id = ?`

const updateNotificationMessageSQL = `UPDATE notifications SET message = ? WHERE id = ?`

const listNotificationsSQL = `
SELECT id, hotel_id, message, created_at
FROM notifications
WHERE hotel_id = ?
ORDER BY created_at, id
`
