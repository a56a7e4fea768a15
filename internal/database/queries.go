package database

const (
	// Wallet account queries
	queryGetAccountByAddress = `
		SELECT id, wallet_address, chain_id, first_connected_at, last_connected_at,
		       connection_count, is_active, created_at, updated_at
		FROM users
		WHERE wallet_address = ?`

	queryInsertAccount = `
		INSERT INTO users (id, wallet_address, chain_id, first_connected_at, last_connected_at,
		                   connection_count, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, 1, ?, ?)`

	queryTouchAccount = `
		UPDATE users
		SET last_connected_at = ?, connection_count = connection_count + 1,
		    chain_id = ?, is_active = 1, updated_at = ?
		WHERE wallet_address = ?`

	queryListAccounts = `
		SELECT id, wallet_address, chain_id, first_connected_at, last_connected_at,
		       connection_count, is_active, created_at, updated_at
		FROM users
		ORDER BY last_connected_at DESC`

	querySetAccountInactive = `
		UPDATE users SET is_active = 0, updated_at = ? WHERE wallet_address = ?`

	// Relay queries
	relayColumns = `id, relay_number, topic_id, sender_address, receiver_address,
		amount, status, transaction_hash, expires_at, created_at, updated_at`

	queryInsertRelay = `
		INSERT INTO relays (id, relay_number, topic_id, sender_address, receiver_address,
		                    amount, status, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetRelay = `
		SELECT ` + relayColumns + `
		FROM relays
		WHERE id = ?`

	queryListRelaysByWallet = `
		SELECT ` + relayColumns + `
		FROM relays
		WHERE sender_address = ? OR receiver_address = ?
		ORDER BY created_at DESC`

	queryUpdateRelayStatus = `
		UPDATE relays
		SET status = ?,
		    transaction_hash = CASE WHEN ? = '' THEN transaction_hash ELSE ? END,
		    updated_at = ?
		WHERE id = ?`

	// Group queries
	groupColumns = `id, group_number, group_name, topic_id, release_date, release_type,
		total_members, total_amount, wallet_address, status, created_at, updated_at`

	queryInsertGroup = `
		INSERT INTO groups (id, group_number, group_name, topic_id, release_date, release_type,
		                    total_members, total_amount, wallet_address, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, '0', ?, 'upcoming', ?, ?)`

	queryGetGroup = `
		SELECT ` + groupColumns + `
		FROM groups
		WHERE id = ?`

	queryListGroupsByOwner = `
		SELECT ` + groupColumns + `
		FROM groups
		WHERE wallet_address = ?
		ORDER BY created_at DESC`

	queryBumpGroupTotals = `
		UPDATE groups
		SET total_members = total_members + 1, total_amount = ?, updated_at = ?
		WHERE id = ?`

	// Member queries
	queryInsertMember = `
		INSERT INTO members (id, group_id, name, wallet_address, amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryListMembers = `
		SELECT id, group_id, name, wallet_address, amount, created_at, updated_at
		FROM members
		WHERE group_id = ?
		ORDER BY created_at`

	// Legacy plan queries
	queryGetPlanByOwner = `
		SELECT id, wallet_address, moment_type, moment_value, activated, created_at, updated_at
		FROM legacy_plans
		WHERE wallet_address = ?`

	queryInsertPlan = `
		INSERT INTO legacy_plans (id, wallet_address, moment_type, moment_value, activated, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)`

	queryUpdatePlan = `
		UPDATE legacy_plans
		SET moment_type = ?, moment_value = ?, updated_at = ?
		WHERE wallet_address = ?`

	// Beneficiary queries
	beneficiaryColumns = `id, wallet_address, name, address, percentage, created_at, updated_at`

	queryInsertBeneficiary = `
		INSERT INTO beneficiaries (id, wallet_address, name, address, percentage, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetBeneficiary = `
		SELECT ` + beneficiaryColumns + `
		FROM beneficiaries
		WHERE id = ? AND wallet_address = ?`

	queryUpdateBeneficiary = `
		UPDATE beneficiaries
		SET name = ?, address = ?, percentage = ?, updated_at = ?
		WHERE id = ? AND wallet_address = ?`

	queryDeleteBeneficiary = `
		DELETE FROM beneficiaries WHERE id = ? AND wallet_address = ?`

	queryListBeneficiaries = `
		SELECT ` + beneficiaryColumns + `
		FROM beneficiaries
		WHERE wallet_address = ?
		ORDER BY created_at`
)
