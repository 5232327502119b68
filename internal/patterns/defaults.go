package patterns

// DefaultDefinitions returns the built-in detection rule set. Severity is
// omitted where the category default applies; categories and thresholds are
// data so rule updates never touch matching logic.
func DefaultDefinitions() []Definition {
	return []Definition{
		// Authority claims
		{ID: "auth-admin-prefix", Expr: `\bADMIN:`, Category: CategoryAuthorityClaim, Confidence: 90, Reason: "message impersonates an administrator directive"},
		{ID: "auth-system-prefix", Expr: `\bSYSTEM(?: MESSAGE)?:`, Category: CategoryAuthorityClaim, Confidence: 88, Reason: "message impersonates a system directive"},
		{ID: "auth-official-notice", Expr: `official (?:notice|announcement) from`, Category: CategoryAuthorityClaim, Confidence: 75, Reason: "claims to be an official announcement"},
		{ID: "auth-developer-claim", Expr: `i am (?:your|the) (?:developer|creator|administrator|operator)`, Category: CategoryAuthorityClaim, Confidence: 85, Reason: "sender claims developer or operator authority"},

		// Instruction overrides
		{ID: "override-ignore-previous", Expr: `ignore (?:all )?(?:previous|prior|earlier) (?:instructions|prompts|rules)`, Category: CategoryInstructionOverride, Confidence: 95, Reason: "attempts to discard standing instructions"},
		{ID: "override-disregard", Expr: `disregard (?:your|all|any) (?:instructions|guidelines|training|rules)`, Category: CategoryInstructionOverride, Confidence: 92, Reason: "attempts to discard standing instructions"},
		{ID: "override-new-instructions", Expr: `(?:new|updated) instructions:`, Category: CategoryInstructionOverride, Confidence: 80, Reason: "injects replacement instructions"},
		{ID: "override-forget", Expr: `forget everything (?:above|before|you know)`, Category: CategoryInstructionOverride, Confidence: 90, Reason: "attempts to wipe the agent's context"},

		// Address redirection
		{ID: "redirect-send-instead", Expr: `send (?:it|funds|payment|tokens|everything) (?:instead )?to (?:this|the following) (?:address|wallet)`, Category: CategoryAddressRedirection, Confidence: 92, Reason: "redirects a payment destination"},
		{ID: "redirect-updated-wallet", Expr: `(?:updated|new|changed) (?:wallet|payment|deposit) address`, Category: CategoryAddressRedirection, Confidence: 85, Reason: "announces a replacement wallet address"},
		{ID: "redirect-use-address", Expr: `use address 0x[0-9a-f]{6,}`, Category: CategoryAddressRedirection, Confidence: 80, Reason: "supplies an unsolicited destination address"},

		// Airdrop scams
		{ID: "airdrop-free-claim", Expr: `(?:free|exclusive) (?:airdrop|tokens?|nft)`, Category: CategoryAirdropScam, Confidence: 80, Reason: "advertises a free token giveaway"},
		{ID: "airdrop-claim-now", Expr: `claim your (?:reward|airdrop|prize|tokens)`, Category: CategoryAirdropScam, Confidence: 82, Reason: "prompts claiming an unexpected reward"},
		{ID: "airdrop-eligible", Expr: `you (?:are|have been) (?:selected|eligible) (?:for|to receive)`, Category: CategoryAirdropScam, Confidence: 72, Reason: "unsolicited eligibility claim"},

		// Urgency manipulation
		{ID: "urgency-act-now", Expr: `act (?:now|immediately|fast)`, Category: CategoryUrgencyManipulation, Confidence: 70, Reason: "pressures immediate action"},
		{ID: "urgency-deadline", Expr: `within (?:the next )?\d+ (?:minutes?|hours?) or`, Category: CategoryUrgencyManipulation, Confidence: 75, Reason: "imposes an artificial deadline"},
		{ID: "urgency-last-chance", Expr: `(?:final|last) (?:chance|warning|opportunity)`, Category: CategoryUrgencyManipulation, Confidence: 72, Reason: "pressures with a final-warning framing"},
		{ID: "urgency-expires", Expr: `offer expires`, Category: CategoryUrgencyManipulation, Confidence: 68, Reason: "pressures with an expiring offer"},

		// Trust exploitation
		{ID: "trust-me", Expr: `(?:just )?trust me`, Category: CategoryTrustExploitation, Confidence: 70, Reason: "asks for unearned trust"},
		{ID: "trust-no-verify", Expr: `no need to (?:verify|check|confirm|ask)`, Category: CategoryTrustExploitation, Confidence: 78, Reason: "discourages verification"},
		{ID: "trust-secret", Expr: `(?:keep this|this is) (?:between us|our secret|confidential)`, Category: CategoryTrustExploitation, Confidence: 75, Reason: "requests concealment from oversight"},

		// Role manipulation
		{ID: "role-you-are-now", Expr: `you are now (?:a|an|in) `, Category: CategoryRoleManipulation, Confidence: 85, Reason: "attempts to reassign the agent's role"},
		{ID: "role-pretend", Expr: `pretend (?:to be|you are)`, Category: CategoryRoleManipulation, Confidence: 82, Reason: "asks the agent to assume a different persona"},
		{ID: "role-jailbreak", Expr: `\b(?:jailbreak|dan mode|developer mode)\b`, Category: CategoryRoleManipulation, Confidence: 90, Reason: "references a known jailbreak persona"},
		{ID: "role-no-restrictions", Expr: `(?:without|no) (?:any )?(?:restrictions|limitations|filters|guardrails)`, Category: CategoryRoleManipulation, Confidence: 80, Reason: "asks for unrestricted behavior"},

		// Context poisoning
		{ID: "poison-seed-phrase", Expr: `seed phrase:`, Category: CategoryContextPoisoning, Confidence: 95, Reason: "plants or solicits a wallet seed phrase"},
		{ID: "poison-private-key", Expr: `private key:`, Category: CategoryContextPoisoning, Confidence: 95, Reason: "plants or solicits a private key"},
		{ID: "poison-remember", Expr: `remember (?:this|that) (?:for later|from now on): `, Category: CategoryContextPoisoning, Confidence: 75, Reason: "injects persistent false memory"},
		{ID: "poison-always-approve", Expr: `always approve (?:requests|transactions|transfers) from`, Category: CategoryContextPoisoning, Confidence: 90, Reason: "plants a standing auto-approval"},

		// Crypto attacks
		{ID: "crypto-drain", Expr: `\bdrain(?:ing)? (?:the |your |all )?(?:wallet|funds|account)`, Category: CategoryCryptoAttack, Confidence: 92, Reason: "references draining a wallet"},
		{ID: "crypto-unlimited-approval", Expr: `approve (?:unlimited|max|infinite) (?:spending|allowance|tokens)`, Category: CategoryCryptoAttack, Confidence: 90, Reason: "requests an unlimited token allowance"},
		{ID: "crypto-set-approval-all", Expr: `setApprovalForAll`, Category: CategoryCryptoAttack, Confidence: 88, Reason: "requests a blanket NFT operator approval"},
		{ID: "crypto-dust", Expr: `dust(?:ing)? attack`, Category: CategoryCryptoAttack, Severity: SeverityHigh, Confidence: 70, Reason: "references a dusting attack"},

		// Data exfiltration
		{ID: "exfil-send-credentials", Expr: `(?:send|post|forward) (?:your|the|all) (?:credentials|secrets|keys|passwords)`, Category: CategoryDataExfiltration, Confidence: 90, Reason: "solicits credential exfiltration"},
		{ID: "exfil-secret-kv", Expr: `(?:password|passwd|secret|api[_-]?key|token)[ \t]*[=:][ \t]*\S+`, Category: CategoryDataExfiltration, Severity: SeverityMedium, Confidence: 65, Reason: "contains an inline credential pair"},
		{ID: "exfil-dump-memory", Expr: `(?:dump|export|reveal) (?:your|the) (?:memory|context|system prompt)`, Category: CategoryDataExfiltration, Confidence: 85, Reason: "solicits internal state disclosure"},
	}
}
