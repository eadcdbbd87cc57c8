package combat

type NPCFightRequest struct {
	EnemyID string `json:"enemy_id" binding:"required"`
}

type ChallengeRequest struct {
	Attacker string `json:"attacker" binding:"required"`
	Defender string `json:"defender" binding:"required"`
}

type ChallengeAnswerRequest struct {
	Defender    string `json:"defender" binding:"required"`
	ChallengeID string `json:"challenge_id" binding:"required"`
}
