package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeConnection(t *testing.T) {
	env, err := Encode(TypeConnection, Connection{ClientID: "c1", DesiredName: "Hero"})
	require.NoError(t, err)
	require.Equal(t, TypeConnection, env.Type)

	decoded, err := DecodeConnection(env)
	require.NoError(t, err)
	require.Equal(t, "c1", decoded.ClientID)
	require.Equal(t, "Hero", decoded.DesiredName)
}

func TestEncodeDecodeCast(t *testing.T) {
	env, err := Encode(TypeCast, Cast{
		CasterType:  "entity",
		ClientID:    "c1",
		CasterID:    "e1",
		AbilityName: "heal",
		Target:      "e1",
		Params:      map[string]any{"amount": 10.0},
	})
	require.NoError(t, err)
	require.Equal(t, TypeCast, env.Type)

	decoded, err := DecodeCast(env)
	require.NoError(t, err)
	require.Equal(t, "heal", decoded.AbilityName)
	require.Equal(t, 10.0, decoded.Params["amount"])
}
