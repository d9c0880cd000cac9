package store

import "fmt"

// The queries below compose the complete snapshot document inside SQLite so
// one round trip yields exactly the JSON the REST API would return for the
// same entity. Values produced by scalar subqueries lose their JSON subtype,
// hence the json(...) wrappers around every nested subquery.

// isoDate normalises a DateTime column to RFC 3339 with milliseconds.
// Prisma writes either integer epoch milliseconds or ISO text depending on
// the client version, so both encodings are accepted.
func isoDate(col string) string {
	return fmt.Sprintf(`CASE typeof(%[1]s)
		WHEN 'integer' THEN strftime('%%Y-%%m-%%dT%%H:%%M:%%fZ', %[1]s / 1000.0, 'unixepoch')
		WHEN 'real' THEN strftime('%%Y-%%m-%%dT%%H:%%M:%%fZ', %[1]s / 1000.0, 'unixepoch')
		WHEN 'text' THEN strftime('%%Y-%%m-%%dT%%H:%%M:%%fZ', %[1]s)
	END`, col)
}

// jsonBool renders a 0/1 column as a JSON boolean.
func jsonBool(col string) string {
	return fmt.Sprintf(`json(CASE WHEN %s THEN 'true' ELSE 'false' END)`, col)
}

// personObject selects the person with the given id column, or NULL.
func personObject(idCol string) string {
	return fmt.Sprintf(`json((SELECT json_object('firstName', p.firstName, 'lastName', p.lastName)
		FROM "Person" p WHERE p.id = %s))`, idCol)
}

// cardSummaryFields are the card members shared by board and card snapshots.
// The alias c must refer to a "BoardCard" row.
func cardSummaryFields() string {
	return fmt.Sprintf(`
		'id', c.id,
		'title', c.title,
		'description', c.description,
		'priority', c.priority,
		'color', c.color,
		'dueDate', %s,
		'createdAt', %s,
		'isBlocked', %s,
		'blockedReason', c.blockedReason,
		'assignees', json((
			SELECT json_group_array(json_object(
				'person', json_object('firstName', p.firstName, 'lastName', p.lastName)
			) ORDER BY a.rowid)
			FROM "BoardCardAssignee" a JOIN "Person" p ON p.id = a.personId
			WHERE a.cardId = c.id)),
		'tags', json((
			SELECT json_group_array(json_object(
				'tag', json_object('id', t.id, 'name', t.name)
			) ORDER BY ct.rowid)
			FROM "BoardCardTag" ct JOIN "Tag" t ON t.id = ct.tagId
			WHERE ct.cardId = c.id)),
		'checklists', json((
			SELECT json_group_array(json_object(
				'id', cl.id,
				'title', cl.title,
				'items', json((
					SELECT json_group_array(json_object(
						'id', i.id, 'title', i.title, 'completed', %s
					) ORDER BY i."order", i.rowid)
					FROM "BoardChecklistItem" i WHERE i.checklistId = cl.id))
			) ORDER BY cl."order", cl.rowid)
			FROM "BoardChecklist" cl WHERE cl.cardId = c.id)),
		'_count', json_object(
			'comments', (SELECT count(*) FROM "BoardComment" cc WHERE cc.cardId = c.id),
			'checklists', (SELECT count(*) FROM "BoardChecklist" ck WHERE ck.cardId = c.id))`,
		isoDate("c.dueDate"), isoDate("c.createdAt"), jsonBool("c.isBlocked"), jsonBool("i.completed"))
}

// boardQuery reads one board with its ordered columns and their ordered,
// non-archived cards.
var boardQuery = fmt.Sprintf(`
SELECT json_object(
	'id', b.id,
	'name', b.name,
	'columns', json((
		SELECT json_group_array(json_object(
			'id', col.id,
			'name', col.name,
			'status', col.status,
			'cards', json((
				SELECT json_group_array(json_object(%s) ORDER BY c."order", c.rowid)
				FROM "BoardCard" c
				WHERE c.columnId = col.id AND c.archivedAt IS NULL))
		) ORDER BY col."order", col.rowid)
		FROM "BoardColumn" col WHERE col.boardId = b.id))
)
FROM "Board" b
WHERE b.id = ?`, cardSummaryFields())

// cardQuery reads one card with its column context, links, blocker and the
// most recent comments and activity entries (newest first).
var cardQuery = fmt.Sprintf(`
SELECT json_object(%[1]s,
	'column', json((
		SELECT json_object(
			'id', col.id,
			'name', col.name,
			'status', col.status,
			'board', json_object('id', b.id, 'name', b.name))
		FROM "BoardColumn" col JOIN "Board" b ON b.id = col.boardId
		WHERE col.id = c.columnId)),
	'blockedByCard', json((
		SELECT json_object('id', bc.id, 'title', bc.title)
		FROM "BoardCard" bc WHERE bc.id = c.blockedByCardId)),
	'links', json((
		SELECT json_group_array(json_object(
			'id', l.id, 'entityType', l.entityType, 'entityId', l.entityId
		) ORDER BY l.rowid)
		FROM "BoardCardLink" l WHERE l.cardId = c.id)),
	'comments', json((
		SELECT json_group_array(json_object(
			'id', m.id,
			'content', m.content,
			'createdAt', %[2]s,
			'author', %[3]s
		) ORDER BY m.createdAt DESC, m.rowid DESC)
		FROM "BoardComment" m
		WHERE m.rowid IN (
			SELECT mm.rowid FROM "BoardComment" mm WHERE mm.cardId = c.id
			ORDER BY mm.createdAt DESC, mm.rowid DESC LIMIT %[4]d))),
	'activities', json((
		SELECT json_group_array(json_object(
			'id', ev.id,
			'action', ev.action,
			'createdAt', %[5]s,
			'author', %[6]s
		) ORDER BY ev.createdAt DESC, ev.rowid DESC)
		FROM "BoardActivity" ev
		WHERE ev.rowid IN (
			SELECT ea.rowid FROM "BoardActivity" ea WHERE ea.cardId = c.id
			ORDER BY ea.createdAt DESC, ea.rowid DESC LIMIT %[4]d)))
)
FROM "BoardCard" c
WHERE c.id = ?`,
	cardSummaryFields(),
	isoDate("m.createdAt"), personObject("m.authorId"),
	RecentLimit,
	isoDate("ev.createdAt"), personObject("ev.authorId"))
