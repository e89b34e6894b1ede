package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify_DecisionTable(t *testing.T) {
	cases := []struct {
		name       string
		descriptor ProductTypeDescriptor
		want       FulfillmentCategory
	}{
		{"gift card is integral", ProductTypeDescriptor{Kind: KindGiftCard}, CategoryIntegral},
		{"gift card ignores flags", ProductTypeDescriptor{Kind: KindGiftCard, IsDigital: true, IsShippingRequired: true}, CategoryIntegral},
		{"other is non redemption", ProductTypeDescriptor{Kind: KindOther, IsShippingRequired: true}, CategoryNonRedemption},
		{"digital normal is redemption", ProductTypeDescriptor{Kind: KindNormal, IsDigital: true}, CategoryRedemption},
		{"shipped normal is logistics", ProductTypeDescriptor{Kind: KindNormal, IsShippingRequired: true}, CategoryLogistics},
		{"plain normal is self pickup", ProductTypeDescriptor{Kind: KindNormal}, CategorySelfPickup},
		{"digital and shipped is unknown", ProductTypeDescriptor{Kind: KindNormal, IsDigital: true, IsShippingRequired: true}, CategoryUnknown},
		{"unrecognized kind is unknown", ProductTypeDescriptor{Kind: Kind("checkup")}, CategoryUnknown},
		{"empty kind is unknown", ProductTypeDescriptor{}, CategoryUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.descriptor))
		})
	}
}

func TestFulfillmentCategory_RequiresShipment(t *testing.T) {
	require.True(t, CategoryLogistics.RequiresShipment())
	require.False(t, CategoryRedemption.RequiresShipment())
	require.False(t, CategoryUnknown.RequiresShipment())
}

func TestFulfillmentCategory_AllocatesRedemptionCode(t *testing.T) {
	require.True(t, CategoryRedemption.AllocatesRedemptionCode())
	require.True(t, CategorySelfPickup.AllocatesRedemptionCode())
	require.False(t, CategoryLogistics.AllocatesRedemptionCode())
	require.False(t, CategoryNonRedemption.AllocatesRedemptionCode())
}
